package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"sports-prediction/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redeem(f *fixture, userID uuid.UUID, code string) error {
	return f.svc.Activation.Redeem(context.Background(), userID, &request.ActivateRequest{Code: code})
}

func TestRedeem_SuccessActivatesUserAndConsumesCode(t *testing.T) {
	f := newFixture(t)
	userID := f.register(t, "alice@example.com", "alice", "secret123")
	f.seedCode(t, "SPORTPRO123")

	require.NoError(t, redeem(f, userID, "SPORTPRO123"))

	status, err := f.svc.Activation.GetActivationStatus(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, status.IsActivated)

	code, err := f.repo.ActivationCode.FindByCode(context.Background(), "SPORTPRO123")
	require.NoError(t, err)
	require.NotNil(t, code)
	assert.True(t, code.IsUsed)
	require.NotNil(t, code.UsedByID)
	assert.Equal(t, userID, *code.UsedByID)
	assert.NotNil(t, code.UsedAt)
}

func TestRedeem_SequentialDoubleRedemption(t *testing.T) {
	f := newFixture(t)
	first := f.register(t, "u1@example.com", "user-one", "secret123")
	second := f.register(t, "u2@example.com", "user-two", "secret123")
	f.seedCode(t, "ONCEONLY")

	require.NoError(t, redeem(f, first, "ONCEONLY"))

	err := redeem(f, second, "ONCEONLY")
	assert.ErrorIs(t, err, ErrInvalidCode)

	status, err := f.svc.Activation.GetActivationStatus(context.Background(), second)
	require.NoError(t, err)
	assert.False(t, status.IsActivated)
}

func TestRedeem_ActivatedUserCannotConsumeAnotherCode(t *testing.T) {
	f := newFixture(t)
	userID := f.register(t, "alice@example.com", "alice", "secret123")
	f.seedCode(t, "FIRSTCODE")
	f.seedCode(t, "SECONDCODE")

	require.NoError(t, redeem(f, userID, "FIRSTCODE"))

	err := redeem(f, userID, "SECONDCODE")
	assert.ErrorIs(t, err, ErrAlreadyActivated)

	code, err := f.repo.ActivationCode.FindByCode(context.Background(), "SECONDCODE")
	require.NoError(t, err)
	assert.False(t, code.IsUsed)
}

func TestRedeem_ConcurrentRedeemersOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	f.seedCode(t, "RACECODE")

	const redeemers = 12
	users := make([]uuid.UUID, redeemers)
	for i := range users {
		users[i] = f.register(t, fmt.Sprintf("racer%d@example.com", i), fmt.Sprintf("racer%d", i), "secret123")
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, redeemers)
	for i, userID := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs[i] = redeem(f, userID, "RACECODE")
		}()
	}
	close(start)
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidCode)
	}
	assert.Equal(t, 1, successes)

	activated := 0
	for _, userID := range users {
		status, err := f.svc.Activation.GetActivationStatus(context.Background(), userID)
		require.NoError(t, err)
		if status.IsActivated {
			activated++
		}
	}
	assert.Equal(t, 1, activated)
}

func TestRedeem_UnknownCodeLooksLikeUsedCode(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "owner@example.com", "owner", "secret123")
	other := f.register(t, "other@example.com", "other", "secret123")
	f.seedCode(t, "TAKEN")
	require.NoError(t, redeem(f, owner, "TAKEN"))

	usedErr := redeem(f, other, "TAKEN")
	unknownErr := redeem(f, other, "NEVER-ISSUED")

	require.ErrorIs(t, usedErr, ErrInvalidCode)
	require.ErrorIs(t, unknownErr, ErrInvalidCode)
	assert.Equal(t, usedErr.Error(), unknownErr.Error())
}

func TestRedeem_MatchesTrimmedCaseSensitiveCode(t *testing.T) {
	f := newFixture(t)
	userID := f.register(t, "alice@example.com", "alice", "secret123")
	f.seedCode(t, "SPORTPRO123")

	assert.ErrorIs(t, redeem(f, userID, "sportpro123"), ErrInvalidCode)
	assert.NoError(t, redeem(f, userID, "  SPORTPRO123 \n"))
}

func TestRedeem_BlankCodeIsValidationError(t *testing.T) {
	f := newFixture(t)
	userID := f.register(t, "alice@example.com", "alice", "secret123")

	err := redeem(f, userID, "   ")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "code")
}

func TestRedeem_UnknownUser(t *testing.T) {
	f := newFixture(t)
	f.seedCode(t, "SPORTPRO123")

	assert.ErrorIs(t, redeem(f, uuid.New(), "SPORTPRO123"), ErrNotFound)
}

func TestRedeem_RollsBackWhenActivationFlagUpdateFails(t *testing.T) {
	f := newFixture(t)
	userID := f.register(t, "alice@example.com", "alice", "secret123")
	f.seedCode(t, "SPORTPRO123")

	boom := errors.New("connection reset")
	f.store.FailOn("User.UpdateActivationFlag", boom)

	err := redeem(f, userID, "SPORTPRO123")
	require.ErrorIs(t, err, ErrStoreFailure)
	assert.ErrorIs(t, err, boom)

	code, err := f.repo.ActivationCode.FindByCode(context.Background(), "SPORTPRO123")
	require.NoError(t, err)
	assert.False(t, code.IsUsed, "code must not stay consumed after rollback")
	assert.Nil(t, code.UsedByID)

	status, err := f.svc.Activation.GetActivationStatus(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, status.IsActivated)

	f.store.ClearFailures()
	assert.NoError(t, redeem(f, userID, "SPORTPRO123"))
}

func TestRedeem_LookupFailureIsStoreFailure(t *testing.T) {
	f := newFixture(t)
	userID := f.register(t, "alice@example.com", "alice", "secret123")
	f.store.FailOn("ActivationCode.FindByCode", errors.New("timeout"))

	assert.ErrorIs(t, redeem(f, userID, "SPORTPRO123"), ErrStoreFailure)
}

func TestGetActivationStatus_UnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Activation.GetActivationStatus(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActivationScenario_AliceThenBob(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.Admin.SeedDemoData(context.Background()))

	alice := f.register(t, "alice@example.com", "alice", "alicepass")
	bob := f.register(t, "bob@example.com", "bob", "bobpass1")

	require.NoError(t, redeem(f, alice, "SPORTPRO123"))
	assert.ErrorIs(t, redeem(f, bob, "SPORTPRO123"), ErrInvalidCode)

	status, err := f.svc.Activation.GetActivationStatus(context.Background(), alice)
	require.NoError(t, err)
	assert.True(t, status.IsActivated)

	// bob can still use an unused demo code
	require.NoError(t, redeem(f, bob, "WINNER456"))
}
