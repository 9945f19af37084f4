package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codeware/chatbot-backend/internal/entity"
)

type fakeMatcher struct {
	match *entity.TriggerMatch
}

func (f *fakeMatcher) Check(string) *entity.TriggerMatch { return f.match }

type fakeAnswerer struct {
	result *entity.AnswerResult
	err    error
	calls  int
}

func (f *fakeAnswerer) Answer(context.Context, string) (*entity.AnswerResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeTrigger struct {
	message string
	err     error
	calls   int
}

func (f *fakeTrigger) Execute(_ context.Context, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.message, nil
}

func TestAskTriggerBranch(t *testing.T) {
	matcher := &fakeMatcher{match: &entity.TriggerMatch{TriggerID: "billing_issue", MatchedKeyword: "billing"}}
	answerer := &fakeAnswerer{result: &entity.AnswerResult{Answer: "unused"}}
	trig := &fakeTrigger{message: "workflow started"}

	uc := NewUsecase(matcher, answerer, trig, 0, zap.NewNop())
	resp, err := uc.Ask(context.Background(), "42", "question about billing")
	require.NoError(t, err)

	assert.True(t, resp.Triggered)
	assert.Equal(t, "billing_issue", resp.TriggerID)
	assert.Equal(t, "billing", resp.MatchedKeyword)
	assert.Equal(t, "workflow started", resp.Answer)
	assert.Empty(t, resp.Sources)

	// Exactly one branch runs.
	assert.Equal(t, 1, trig.calls)
	assert.Equal(t, 0, answerer.calls)
}

func TestAskGenerativeBranch(t *testing.T) {
	matcher := &fakeMatcher{}
	answerer := &fakeAnswerer{result: &entity.AnswerResult{
		Answer:  "our packages start at 500 taka",
		Sources: []string{"pricing.txt"},
	}}
	trig := &fakeTrigger{message: "unused"}

	uc := NewUsecase(matcher, answerer, trig, 0, zap.NewNop())
	resp, err := uc.Ask(context.Background(), "42", "what are your packages?")
	require.NoError(t, err)

	assert.False(t, resp.Triggered)
	assert.Empty(t, resp.TriggerID)
	assert.Equal(t, "our packages start at 500 taka", resp.Answer)
	assert.Equal(t, []string{"pricing.txt"}, resp.Sources)

	assert.Equal(t, 0, trig.calls)
	assert.Equal(t, 1, answerer.calls)
}

func TestAskGenerativeBranchNilSources(t *testing.T) {
	matcher := &fakeMatcher{}
	answerer := &fakeAnswerer{result: &entity.AnswerResult{Answer: "a"}}

	uc := NewUsecase(matcher, answerer, &fakeTrigger{}, 0, zap.NewNop())
	resp, err := uc.Ask(context.Background(), "42", "q")
	require.NoError(t, err)

	// Sources must serialize as [], never null.
	assert.NotNil(t, resp.Sources)
	assert.Empty(t, resp.Sources)
}

func TestAskTriggerExecutionError(t *testing.T) {
	matcher := &fakeMatcher{match: &entity.TriggerMatch{TriggerID: "x", MatchedKeyword: "x"}}
	wantErr := errors.New("workflow service down")
	trig := &fakeTrigger{err: wantErr}

	uc := NewUsecase(matcher, &fakeAnswerer{}, trig, 0, zap.NewNop())
	resp, err := uc.Ask(context.Background(), "42", "q")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, wantErr)
}

func TestAskAnswererError(t *testing.T) {
	wantErr := errors.New("generation failed")
	answerer := &fakeAnswerer{err: wantErr}

	uc := NewUsecase(&fakeMatcher{}, answerer, &fakeTrigger{}, 0, zap.NewNop())
	resp, err := uc.Ask(context.Background(), "42", "q")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, wantErr)
}

func TestAskAnswerCacheHit(t *testing.T) {
	answerer := &fakeAnswerer{result: &entity.AnswerResult{Answer: "cached", Sources: []string{"a.txt"}}}

	uc := NewUsecase(&fakeMatcher{}, answerer, &fakeTrigger{}, time.Minute, zap.NewNop())

	first, err := uc.Ask(context.Background(), "42", "What Are Your Packages?")
	require.NoError(t, err)
	// Same question up to normalization hits the cache.
	second, err := uc.Ask(context.Background(), "43", "what are your packages?")
	require.NoError(t, err)

	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.Sources, second.Sources)
	assert.Equal(t, 1, answerer.calls)
}

func TestAskCacheDisabled(t *testing.T) {
	answerer := &fakeAnswerer{result: &entity.AnswerResult{Answer: "a"}}

	uc := NewUsecase(&fakeMatcher{}, answerer, &fakeTrigger{}, 0, zap.NewNop())

	_, err := uc.Ask(context.Background(), "42", "q")
	require.NoError(t, err)
	_, err = uc.Ask(context.Background(), "42", "q")
	require.NoError(t, err)

	assert.Equal(t, 2, answerer.calls)
}

func TestAskErrorNotCached(t *testing.T) {
	answerer := &fakeAnswerer{err: errors.New("transient")}

	uc := NewUsecase(&fakeMatcher{}, answerer, &fakeTrigger{}, time.Minute, zap.NewNop())

	_, err := uc.Ask(context.Background(), "42", "q")
	require.Error(t, err)

	answerer.err = nil
	answerer.result = &entity.AnswerResult{Answer: "recovered"}
	resp, err := uc.Ask(context.Background(), "42", "q")
	require.NoError(t, err)

	assert.Equal(t, "recovered", resp.Answer)
	assert.Equal(t, 2, answerer.calls)
}
