package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/sentences/internal/sentences"
)

func success(lang string, examples ...sentences.Example) sentences.Outcome {
	return sentences.Outcome{Kind: sentences.OutcomeSuccess, DetectedLanguage: lang, Examples: examples}
}

func failed(msg string) sentences.Outcome {
	return sentences.Outcome{Kind: sentences.OutcomeError, Message: msg}
}

func TestSubmit_BlankInputIsSuppressed(t *testing.T) {
	for _, raw := range []string{"", " ", "\t\n", "　"} {
		s := NewStore()
		s.SetInput(raw)
		before := s.State()

		_, ok := s.Submit(raw)

		assert.False(t, ok, "input %q", raw)
		assert.Equal(t, before, s.State())
		assert.Zero(t, s.Generation())
	}
}

func TestSubmit_EntersLoadingAndClearsPrevious(t *testing.T) {
	s := NewStore()
	first, ok := s.Submit("hello")
	require.True(t, ok)
	require.True(t, s.Apply(first, success("English", sentences.Example{Target: "Hello there"})))

	ticket, ok := s.Submit("  world ")
	require.True(t, ok)

	st := s.State()
	assert.Equal(t, sentences.StatusLoading, st.Status)
	assert.Equal(t, "world", st.LastExecutedTerm)
	assert.Equal(t, "world", ticket.Term)
	assert.Nil(t, st.Result)
	assert.Empty(t, st.ErrorMessage)
	assert.Equal(t, uint64(2), ticket.Generation)
}

func TestApply_Success(t *testing.T) {
	s := NewStore()
	ticket, _ := s.Submit("hello")

	examples := []sentences.Example{
		{Target: "你好", English: "hello", Pronunciation: "nǐ hǎo"},
		{Target: "你好吗", English: "how are you", Pronunciation: "nǐ hǎo ma"},
	}
	require.True(t, s.Apply(ticket, success("Chinese", examples...)))

	st := s.State()
	assert.Equal(t, sentences.StatusSuccess, st.Status)
	require.NotNil(t, st.Result)
	assert.Equal(t, "Chinese", st.DetectedLanguage())
	assert.Equal(t, examples, st.Examples())
	assert.Equal(t, "hello", st.Result.Term)
}

func TestApply_ErrorClearsResult(t *testing.T) {
	s := NewStore()
	ticket, _ := s.Submit("xyz")

	require.True(t, s.Apply(ticket, failed("No results found")))

	st := s.State()
	assert.Equal(t, sentences.StatusError, st.Status)
	assert.Equal(t, "No results found", st.ErrorMessage)
	assert.Nil(t, st.Result)
	assert.Empty(t, st.Examples())
}

func TestApply_StaleOutcomeDiscarded(t *testing.T) {
	s := NewStore()
	older, _ := s.Submit("first")
	newer, _ := s.Submit("second")

	require.True(t, s.Apply(newer, success("English", sentences.Example{Target: "second one"})))
	assert.False(t, s.Apply(older, failed("too late")))

	st := s.State()
	assert.Equal(t, sentences.StatusSuccess, st.Status)
	assert.Equal(t, "second", st.LastExecutedTerm)
	assert.Empty(t, st.ErrorMessage)
}

func TestApply_StaleOutcomeWhileNewerInFlight(t *testing.T) {
	s := NewStore()
	older, _ := s.Submit("first")
	_, _ = s.Submit("second")

	assert.False(t, s.Apply(older, success("English")))
	assert.Equal(t, sentences.StatusLoading, s.State().Status)
}

func TestApply_OnlyOnce(t *testing.T) {
	s := NewStore()
	ticket, _ := s.Submit("hello")

	require.True(t, s.Apply(ticket, success("English")))
	assert.False(t, s.Apply(ticket, failed("duplicate")))
	assert.Equal(t, sentences.StatusSuccess, s.State().Status)
}

func TestSubmit_SameTermInFlightIgnored(t *testing.T) {
	s := NewStore()
	first, ok := s.Submit("hello")
	require.True(t, ok)

	_, ok = s.Submit(" hello ")
	assert.False(t, ok)
	assert.Equal(t, first.Generation, s.Generation())

	// once settled the same term may be searched again
	require.True(t, s.Apply(first, success("English")))
	_, ok = s.Submit("hello")
	assert.True(t, ok)
}

func TestFailClipboard_KeepsResult(t *testing.T) {
	s := NewStore()
	ticket, _ := s.Submit("hello")
	require.True(t, s.Apply(ticket, success("French", sentences.Example{Target: "Bonjour"})))

	s.FailClipboard("Failed to copy to clipboard")

	st := s.State()
	assert.Equal(t, "Failed to copy to clipboard", st.ErrorMessage)
	assert.Equal(t, sentences.StatusSuccess, st.Status)
	require.NotNil(t, st.Result)
	assert.Len(t, st.Examples(), 1)
}

func TestReset_SupersedesInFlight(t *testing.T) {
	s := NewStore()
	ticket, _ := s.Submit("hello")

	s.Reset()

	assert.False(t, s.Apply(ticket, success("English")))
	assert.Equal(t, sentences.StatusIdle, s.State().Status)
	assert.Empty(t, s.State().LastExecutedTerm)
}

func TestStore_CyclesIndefinitely(t *testing.T) {
	s := NewStore()
	for i, term := range []string{"a", "b", "c", "d"} {
		ticket, ok := s.Submit(term)
		require.True(t, ok)
		if i%2 == 0 {
			s.Apply(ticket, failed("nope"))
			assert.Equal(t, sentences.StatusError, s.State().Status)
		} else {
			s.Apply(ticket, success("English"))
			assert.Equal(t, sentences.StatusSuccess, s.State().Status)
		}
	}
}
