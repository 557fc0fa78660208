package quiz

// OpKind tags a compiled operation.
type OpKind int

const (
	OpEnableQuiz OpKind = iota
	OpAddQuestion
	OpSetDescription
)

// Operation is one provider mutation. The sequence order is the logical
// document order; realizing it against the provider's location semantics
// is the transport adapter's job.
type Operation struct {
	Kind        OpKind
	Question    Question // OpAddQuestion
	Graded      bool     // OpAddQuestion: grading payload attached
	Description string   // OpSetDescription
}

// Warning reports a correct answer that matched none of the choices.
// The question is still created, just without grading.
type Warning struct {
	QuestionTitle string
	Answer        string
}

// Compile turns a definition into the ordered mutation sequence the
// provider expects: quiz mode first, one question per record in input
// order, description last and only when non-empty. It never fails;
// unmatched answers come back as warnings.
func Compile(def Definition, description string) ([]Operation, []Warning) {
	ops := make([]Operation, 0, len(def)+2)
	var warnings []Warning

	ops = append(ops, Operation{Kind: OpEnableQuiz})

	for _, q := range def {
		op := Operation{Kind: OpAddQuestion, Question: q}
		if q.Correct != "" {
			if matchesChoice(q.Choices, q.Correct) {
				op.Graded = true
			} else {
				warnings = append(warnings, Warning{QuestionTitle: q.Title, Answer: q.Correct})
			}
		}
		ops = append(ops, op)
	}

	if d := Sanitize(description); d != "" {
		ops = append(ops, Operation{Kind: OpSetDescription, Description: d})
	}

	return ops, warnings
}

func matchesChoice(choices []string, answer string) bool {
	answer = Sanitize(answer)
	for _, c := range choices {
		if Sanitize(c) == answer {
			return true
		}
	}
	return false
}
