package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"cocktail-web/internal/core/cocktail"
	"cocktail-web/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testOwner = "session-1"

// fakeCreator 依序回傳 r-1, r-2...，可設定錯誤或阻塞
type fakeCreator struct {
	mu       sync.Mutex
	requests []cocktail.CreateRequest
	err      error
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeCreator) CreateRecipe(ctx context.Context, req cocktail.CreateRequest) (*common.Recipe, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	n := len(f.requests)
	err := f.err
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if err != nil {
		return nil, err
	}
	return &common.Recipe{
		ID:    fmt.Sprintf("r-%d", n),
		Name:  fmt.Sprintf("Cocktail %d", n),
		Steps: []common.Step{{Index: 1, Description: "Pour and serve."}},
	}, nil
}

func (f *fakeCreator) calls() []cocktail.CreateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]cocktail.CreateRequest(nil), f.requests...)
}

type fakeStore struct {
	mu       sync.Mutex
	inserted []common.Recipe
	owners   []string
	err      error
}

func (s *fakeStore) Insert(ctx context.Context, owner string, recipe common.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return common.NewStorageError("insert", s.err)
	}
	s.inserted = append(s.inserted, recipe)
	s.owners = append(s.owners, owner)
	return nil
}

func (s *fakeStore) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return common.RecipeIDs(s.inserted)
}

// FlowTestSuite 表單流程測試
type FlowTestSuite struct {
	suite.Suite
	creator *fakeCreator
	store   *fakeStore
	flow    *Flow
	ctx     context.Context
	values  Constraints
}

func (s *FlowTestSuite) SetupTest() {
	s.creator = &fakeCreator{}
	s.store = &fakeStore{}
	s.flow = NewFlow(testOwner, s.creator, s.store)
	s.ctx = context.Background()
	s.values = Constraints{
		Mixers:        []string{"tonic", "lemon juice"},
		SuggestMixers: true,
		Spirits:       []string{"gin"},
		Complexity:    "medium",
		HasShaker:     true,
	}
}

func (s *FlowTestSuite) submitAndReset(c Constraints) {
	state, err := s.flow.Submit(s.ctx, c)
	s.Require().NoError(err)
	s.Require().Equal(Result, state)
	s.flow.Reset()
}

func (s *FlowTestSuite) TestFirstSubmitShowsResult() {
	// Act
	state, err := s.flow.Submit(s.ctx, s.values)

	// Assert
	s.Require().NoError(err)
	s.Equal(Result, state)
	s.Equal([]string{"r-1"}, s.store.ids())

	view := s.flow.View()
	s.Equal(Result, view.State)
	s.Require().NotNil(view.Recipe)
	s.Equal("r-1", view.Recipe.ID)
	s.Equal([]string{"r-1"}, view.Exclusions)

	calls := s.creator.calls()
	s.Require().Len(calls, 1)
	s.Nil(calls[0].PreviousRecipes)
	s.Equal([]string{"gin"}, calls[0].BaseIngredients)
}

func (s *FlowTestSuite) TestIdenticalResubmitAsksForConfirmation() {
	s.submitAndReset(s.values)

	state, err := s.flow.Submit(s.ctx, s.values.clone())

	s.Require().NoError(err)
	s.Equal(RetryConfirmation, state)
	s.Len(s.creator.calls(), 1, "no request until confirmed")
}

func (s *FlowTestSuite) TestSingleFieldChangeSubmitsImmediately() {
	s.submitAndReset(s.values)

	changed := s.values.clone()
	changed.Moment = "wedding"
	state, err := s.flow.Submit(s.ctx, changed)

	s.Require().NoError(err)
	s.Equal(Result, state)
	calls := s.creator.calls()
	s.Require().Len(calls, 2)
	s.Nil(calls[1].PreviousRecipes)
}

func (s *FlowTestSuite) TestConfirmedRetriesAccumulateExclusions() {
	s.submitAndReset(s.values)

	// 第一次重試排除 r-1
	state, err := s.flow.Submit(s.ctx, s.values)
	s.Require().NoError(err)
	s.Require().Equal(RetryConfirmation, state)
	state, err = s.flow.ConfirmRetry(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(Result, state)
	s.flow.Reset()

	// 第二次重試排除 r-1, r-2
	state, err = s.flow.Submit(s.ctx, s.values)
	s.Require().NoError(err)
	s.Require().Equal(RetryConfirmation, state)
	state, err = s.flow.ConfirmRetry(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(Result, state)
	s.flow.Reset()

	// 排除清單包含這個 session 拿到的每一個結果，含第一次送出的 r-1，
	// 所以兩次重試（r-2, r-3）之後第三次重試送出 r-1, r-2, r-3
	state, err = s.flow.Submit(s.ctx, s.values)
	s.Require().NoError(err)
	s.Require().Equal(RetryConfirmation, state)
	_, err = s.flow.ConfirmRetry(s.ctx)
	s.Require().NoError(err)

	calls := s.creator.calls()
	s.Require().Len(calls, 4)
	s.Nil(calls[0].PreviousRecipes)
	s.Equal([]string{"r-1"}, calls[1].PreviousRecipes)
	s.Equal([]string{"r-1", "r-2"}, calls[2].PreviousRecipes)
	s.Equal([]string{"r-1", "r-2", "r-3"}, calls[3].PreviousRecipes)
	s.Equal([]string{"r-1", "r-2", "r-3", "r-4"}, s.store.ids())
	s.Equal([]string{testOwner, testOwner, testOwner, testOwner}, s.store.owners)
}

func (s *FlowTestSuite) TestCancelRetryKeepsValues() {
	s.submitAndReset(s.values)
	_, err := s.flow.Submit(s.ctx, s.values)
	s.Require().NoError(err)

	state := s.flow.CancelRetry()

	s.Equal(Editing, state)
	view := s.flow.View()
	s.True(view.Values.Equal(s.values))
	s.Len(s.creator.calls(), 1)

	_, err = s.flow.ConfirmRetry(s.ctx)
	s.ErrorIs(err, ErrNoPendingRetry)
}

func (s *FlowTestSuite) TestSchemaErrorIsNotPersisted() {
	s.creator.err = &common.SchemaValidationError{Reason: "Invalid response schema"}

	state, err := s.flow.Submit(s.ctx, s.values)

	s.True(common.IsSchemaValidationError(err))
	s.Equal(Editing, state)
	s.Empty(s.store.ids())

	view := s.flow.View()
	s.Equal(common.GenericFailureMessage, view.Notice)
	s.Empty(view.Exclusions)
	s.True(view.Values.Equal(s.values), "values stay in the form")

	s.Equal(common.GenericFailureMessage, s.flow.TakeNotice())
	s.Empty(s.flow.TakeNotice())

	// 失敗的送出不算「上次成功送出」
	s.creator.err = nil
	state, err = s.flow.Submit(s.ctx, s.values)
	s.Require().NoError(err)
	s.Equal(Result, state)
}

func (s *FlowTestSuite) TestNetworkErrorRollsBack() {
	s.creator.err = &common.NetworkError{Status: 502}

	state, err := s.flow.Submit(s.ctx, s.values)

	s.True(common.IsNetworkError(err))
	s.Equal(Editing, state)
	s.Equal(common.GenericFailureMessage, s.flow.View().Notice)
}

func (s *FlowTestSuite) TestStorageFailureRollsBack() {
	s.store.err = errors.New("quota exceeded")

	state, err := s.flow.Submit(s.ctx, s.values)

	s.True(common.IsStorageError(err))
	s.Equal(Editing, state)
	s.Nil(s.flow.View().Recipe)
	s.Equal(common.GenericFailureMessage, s.flow.View().Notice)

	// 未儲存的結果仍算已送出，相同條件需確認並排除
	s.store.err = nil
	state, err = s.flow.Submit(s.ctx, s.values)
	s.Require().NoError(err)
	s.Equal(RetryConfirmation, state)
	_, err = s.flow.ConfirmRetry(s.ctx)
	s.Require().NoError(err)
	calls := s.creator.calls()
	s.Require().Len(calls, 2)
	s.Equal([]string{"r-1"}, calls[1].PreviousRecipes)
	s.Equal([]string{"r-2"}, s.store.ids())
}

func (s *FlowTestSuite) TestValidationErrorKeepsState() {
	state, err := s.flow.Submit(s.ctx, Constraints{})

	s.True(common.IsValidationError(err))
	s.Equal(Editing, state)
	s.Empty(s.creator.calls())
}

func (s *FlowTestSuite) TestSubmitWhileResultShown() {
	_, err := s.flow.Submit(s.ctx, s.values)
	s.Require().NoError(err)

	state, err := s.flow.Submit(s.ctx, s.values)

	s.ErrorIs(err, ErrResultShown)
	s.Equal(Result, state)
}

func (s *FlowTestSuite) TestOnlyOneRequestInFlight() {
	s.creator.started = make(chan struct{}, 1)
	s.creator.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := s.flow.Submit(s.ctx, s.values)
		done <- err
	}()
	<-s.creator.started

	state, err := s.flow.Submit(s.ctx, s.values)
	s.ErrorIs(err, ErrSubmissionInFlight)
	s.Equal(Submitting, state)
	s.Equal(Submitting, s.flow.View().State)

	close(s.creator.release)
	s.NoError(<-done)
	s.Len(s.creator.calls(), 1)
	s.Equal(Result, s.flow.State())
}

func (s *FlowTestSuite) TestResetDiscardsInFlightResult() {
	s.creator.started = make(chan struct{}, 1)
	s.creator.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := s.flow.Submit(s.ctx, s.values)
		done <- err
	}()
	<-s.creator.started

	s.flow.Reset()
	close(s.creator.release)

	s.ErrorIs(<-done, ErrResultDiscarded)
	view := s.flow.View()
	s.Equal(Editing, view.State)
	s.Nil(view.Recipe)
	s.Empty(view.Exclusions)
	s.Empty(s.store.ids())
}

func (s *FlowTestSuite) TestSnapshotRestore() {
	s.submitAndReset(s.values)
	snap := s.flow.Snapshot()
	s.Equal([]string{"r-1"}, snap.Exclusions)
	s.Require().NotNil(snap.LastSubmitted)

	restored := NewFlow(testOwner, s.creator, s.store)
	s.True(restored.Restore(snap))

	state, err := restored.Submit(s.ctx, s.values)
	s.Require().NoError(err)
	s.Equal(RetryConfirmation, state)

	s.False(s.flow.Restore(snap), "used flows are not overwritten")
}

func TestFlowTestSuite(t *testing.T) {
	suite.Run(t, new(FlowTestSuite))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "editing", Editing.String())
	assert.Equal(t, "retry_confirmation", RetryConfirmation.String())
	require.Equal(t, "unknown", State(42).String())
}
