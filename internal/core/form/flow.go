// Package form 食譜表單的狀態流程：編輯、送出、重試確認、結果
package form

import (
	"context"
	"errors"
	"slices"
	"sync"

	"cocktail-web/internal/core/cocktail"
	"cocktail-web/internal/pkg/common"

	"go.uber.org/zap"
)

// State 表單狀態
type State int

const (
	Editing State = iota
	Submitting
	RetryConfirmation
	Result
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case RetryConfirmation:
		return "retry_confirmation"
	case Result:
		return "result"
	default:
		return "unknown"
	}
}

var (
	// ErrSubmissionInFlight 已有請求在進行中
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	// ErrNoPendingRetry 沒有等待確認的重試
	ErrNoPendingRetry = errors.New("no retry awaiting confirmation")
	// ErrResultShown 結果畫面需要先重新開始
	ErrResultShown = errors.New("a result is displayed; start over first")
	// ErrResultDiscarded 請求期間表單已重置，結果被丟棄
	ErrResultDiscarded = errors.New("result discarded after reset")
)

// Creator 產生食譜的遠端服務
type Creator interface {
	CreateRecipe(ctx context.Context, req cocktail.CreateRequest) (*common.Recipe, error)
}

// RecipeStore 儲存產生的食譜
type RecipeStore interface {
	Insert(ctx context.Context, owner string, recipe common.Recipe) error
}

// View 目前表單的顯示內容
type View struct {
	State      State          `json:"state"`
	Recipe     *common.Recipe `json:"recipe,omitempty"`
	Values     Constraints    `json:"values"`
	Notice     string         `json:"notice,omitempty"`
	Exclusions []string       `json:"exclusions"`
}

// Snapshot 跨重啟保留的部分
type Snapshot struct {
	LastSubmitted *Constraints `json:"last_submitted,omitempty"`
	Exclusions    []string     `json:"exclusions"`
}

// Flow 單一使用者的表單流程，可同時被多個請求存取
type Flow struct {
	mu      sync.Mutex
	owner   string
	creator Creator
	store   RecipeStore

	state      State
	generation uint64
	pending    *Constraints
	last       *Constraints
	exclusions []string
	current    *common.Recipe
	notice     string
}

// NewFlow 創建新的表單流程，owner 為儲存食譜時的擁有者
func NewFlow(owner string, creator Creator, store RecipeStore) *Flow {
	return &Flow{
		owner:   owner,
		creator: creator,
		store:   store,
		state:   Editing,
	}
}

// Submit 送出表單；與上次成功送出的值相同時進入重試確認
func (f *Flow) Submit(ctx context.Context, c Constraints) (State, error) {
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return f.State(), err
	}

	f.mu.Lock()
	switch f.state {
	case Submitting:
		f.mu.Unlock()
		return Submitting, ErrSubmissionInFlight
	case Result:
		f.mu.Unlock()
		return Result, ErrResultShown
	}

	if f.last != nil && f.last.Equal(c) {
		pending := c.clone()
		f.pending = &pending
		f.state = RetryConfirmation
		f.mu.Unlock()
		common.LogDebug("相同條件，等待重試確認", zap.Strings("mixers", c.Mixers))
		return RetryConfirmation, nil
	}

	return f.run(ctx, c, nil)
}

// ConfirmRetry 以相同條件重送，並排除已經拿到的食譜
func (f *Flow) ConfirmRetry(ctx context.Context) (State, error) {
	f.mu.Lock()
	if f.state != RetryConfirmation || f.pending == nil {
		state := f.state
		f.mu.Unlock()
		return state, ErrNoPendingRetry
	}
	return f.run(ctx, *f.pending, slices.Clone(f.exclusions))
}

// CancelRetry 放棄重試，回到編輯並保留表單值
func (f *Flow) CancelRetry() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == RetryConfirmation {
		f.state = Editing
	}
	return f.state
}

// Reset 重新開始；進行中的請求結果會被丟棄
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	f.state = Editing
	f.pending = nil
	f.current = nil
	f.notice = ""
}

// run 呼叫時必須持有鎖，會在發送請求前釋放
func (f *Flow) run(ctx context.Context, c Constraints, exclude []string) (State, error) {
	pending := c.clone()
	f.pending = &pending
	f.state = Submitting
	f.notice = ""
	f.generation++
	gen := f.generation
	f.mu.Unlock()

	recipe, err := f.creator.CreateRecipe(ctx, c.ToRequest(exclude))

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.generation {
		common.LogInfo("表單已重置，丟棄結果", zap.Bool("failed", err != nil))
		return f.state, ErrResultDiscarded
	}

	if err != nil {
		return f.fail("建立雞尾酒失敗", err)
	}

	submitted := c.clone()
	f.last = &submitted
	f.exclusions = append(f.exclusions, recipe.ID)

	// 儲存失敗時上面兩項保留，相同條件再送出仍需確認並排除此 id
	if err := f.store.Insert(ctx, f.owner, *recipe); err != nil {
		return f.fail("儲存食譜失敗", err)
	}

	f.current = recipe
	f.state = Result
	return Result, nil
}

// fail 回到編輯狀態，細節寫進日誌，使用者只看到通用訊息
func (f *Flow) fail(msg string, err error) (State, error) {
	common.LogError(msg, common.ErrorFields(err)...)
	f.state = Editing
	f.notice = common.GenericFailureMessage
	return Editing, err
}

// State 目前狀態
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// View 取得顯示內容
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		State:      f.state,
		Notice:     f.notice,
		Exclusions: slices.Clone(f.exclusions),
		Values:     DefaultConstraints(),
	}
	if v.Exclusions == nil {
		v.Exclusions = []string{}
	}
	if f.pending != nil {
		v.Values = f.pending.clone()
	}
	if f.current != nil {
		r := *f.current
		v.Recipe = &r
	}
	return v
}

// TakeNotice 取出並清除提示訊息
func (f *Flow) TakeNotice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.notice
	f.notice = ""
	return n
}

// Snapshot 匯出上次送出的條件與排除清單
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := Snapshot{Exclusions: slices.Clone(f.exclusions)}
	if s.Exclusions == nil {
		s.Exclusions = []string{}
	}
	if f.last != nil {
		last := f.last.clone()
		s.LastSubmitted = &last
	}
	return s
}

// Restore 從快照恢復，只在沒有任何成功送出時套用
func (f *Flow) Restore(s Snapshot) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.last != nil || len(f.exclusions) > 0 || f.state != Editing {
		return false
	}
	if s.LastSubmitted != nil {
		last := s.LastSubmitted.clone()
		f.last = &last
	}
	f.exclusions = slices.Clone(s.Exclusions)
	return true
}
