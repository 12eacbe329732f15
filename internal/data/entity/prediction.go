package entity

type PredictionStatus string

const (
	PredictionStatusLive      PredictionStatus = "Live"
	PredictionStatusUpcoming  PredictionStatus = "Upcoming"
	PredictionStatusTomorrow  PredictionStatus = "Tomorrow"
	PredictionStatusCompleted PredictionStatus = "Completed"
)

type Prediction struct {
	BaseSimple
	Match      string           `db:"match"`
	League     string           `db:"league"`
	Prediction string           `db:"prediction"`
	Multiplier string           `db:"multiplier"`
	Time       string           `db:"time"`
	Status     PredictionStatus `db:"status"`
}
