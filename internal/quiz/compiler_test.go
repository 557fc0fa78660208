package quiz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileEmptyDefinition(t *testing.T) {
	ops, warnings := Compile(nil, "")
	require.Len(t, ops, 1)
	require.Equal(t, OpEnableQuiz, ops[0].Kind)
	require.Empty(t, warnings)
}

func TestCompileEnableQuizAlwaysFirst(t *testing.T) {
	def := Definition{
		{Title: "q1", Choices: []string{"a"}},
		{Title: "q2", Choices: []string{"b"}},
	}
	ops, _ := Compile(def, "desc")
	require.Equal(t, OpEnableQuiz, ops[0].Kind)
}

func TestCompileQuestionOrderPreserved(t *testing.T) {
	def := Definition{
		{Title: "q1", Choices: []string{"a"}},
		{Title: "q2", Choices: []string{"b"}},
		{Title: "q3", Choices: []string{"c"}},
	}
	ops, _ := Compile(def, "")
	require.Len(t, ops, 4)
	require.Equal(t, "q1", ops[1].Question.Title)
	require.Equal(t, "q2", ops[2].Question.Title)
	require.Equal(t, "q3", ops[3].Question.Title)
}

func TestCompileDescriptionLastOnlyWhenPresent(t *testing.T) {
	def := Definition{{Title: "q", Choices: []string{"a"}}}

	ops, _ := Compile(def, "about this quiz")
	require.Equal(t, OpSetDescription, ops[len(ops)-1].Kind)
	require.Equal(t, "about this quiz", ops[len(ops)-1].Description)

	ops, _ = Compile(def, "")
	for _, op := range ops {
		require.NotEqual(t, OpSetDescription, op.Kind)
	}
}

func TestCompileGradingMatch(t *testing.T) {
	def := Definition{{
		Title:   "q",
		Choices: []string{"a", "b"},
		Correct: "b",
		Points:  3,
	}}
	ops, warnings := Compile(def, "")
	require.Empty(t, warnings)
	require.True(t, ops[1].Graded)
	require.Equal(t, int64(3), ops[1].Question.Points)
}

func TestCompileGradingMismatchWarns(t *testing.T) {
	def := Definition{{
		Title:   "Pick one",
		Choices: []string{"Red", "Blue"},
		Correct: "Green",
	}}
	ops, warnings := Compile(def, "")
	require.False(t, ops[1].Graded)
	require.Len(t, warnings, 1)
	require.Equal(t, "Pick one", warnings[0].QuestionTitle)
	require.Equal(t, "Green", warnings[0].Answer)
}

func TestCompileGradingIsCaseSensitive(t *testing.T) {
	def := Definition{{
		Title:   "q",
		Choices: []string{"Red"},
		Correct: "red",
	}}
	ops, warnings := Compile(def, "")
	require.False(t, ops[1].Graded)
	require.Len(t, warnings, 1)
}

func TestCompileNoGradingWithoutAnswerEvenWithPoints(t *testing.T) {
	def := Definition{{
		Title:   "q",
		Choices: []string{"a"},
		Points:  5,
	}}
	ops, warnings := Compile(def, "")
	require.False(t, ops[1].Graded)
	require.Empty(t, warnings)
}

// Scenario: two parsed blocks compile into enable-quiz, a graded question
// and an ungraded one, with no description op.
func TestParseCompileEndToEnd(t *testing.T) {
	raw := "سؤال: What is 2+2?\n" +
		"اختيارات: 3 | 4 | 5\n" +
		"إجابة: 4\n" +
		"نقاط: 2\n" +
		"\n" +
		"سؤال: Pick a color\n" +
		"اختيارات: Red | Blue\n"

	ops, warnings := Compile(Parse(raw), "")
	require.Empty(t, warnings)
	require.Len(t, ops, 3)

	require.Equal(t, OpEnableQuiz, ops[0].Kind)

	require.Equal(t, OpAddQuestion, ops[1].Kind)
	require.True(t, ops[1].Graded)
	require.Equal(t, "4", ops[1].Question.Correct)
	require.Equal(t, int64(2), ops[1].Question.Points)

	require.Equal(t, OpAddQuestion, ops[2].Kind)
	require.False(t, ops[2].Graded)
}

// Scenario: an answer in the format's own language that matches no choice
// yields an ungraded question and exactly one warning.
func TestParseCompileUnmatchedAnswer(t *testing.T) {
	raw := "سؤال: Pick a color\n" +
		"اختيارات: Red | Blue\n" +
		"إجابة: Green\n"

	ops, warnings := Compile(Parse(raw), "")
	require.Len(t, ops, 2)
	require.False(t, ops[1].Graded)
	require.Len(t, warnings, 1)
	require.Equal(t, "Green", warnings[0].Answer)
}
