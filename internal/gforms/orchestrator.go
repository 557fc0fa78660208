package gforms

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/forms/v1"

	"formsquizbot/internal/quiz"
)

const viewLinkTemplate = "https://docs.google.com/forms/d/e/%s/viewform"

// Result identifies a created form.
type Result struct {
	FormID   string
	ViewLink string
}

// Orchestrator drives form creation: create the entity with only its
// title, apply the compiled operations as one ordered batch, resolve the
// viewer link. It performs no retries; retry policy belongs to the caller.
type Orchestrator struct {
	api FormsAPI
	log *zap.SugaredLogger
}

func NewOrchestrator(api FormsAPI, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{api: api, log: log}
}

func (o *Orchestrator) CreateQuiz(ctx context.Context, title string, ops []quiz.Operation) (Result, error) {
	title = quiz.Sanitize(title)
	o.log.Infow("creating form", "title", title, "operations", len(ops))

	form, err := o.api.Create(ctx, title)
	if err != nil {
		return Result{}, newError(ErrCreate, "", err)
	}

	if err := o.api.BatchUpdate(ctx, form.FormId, buildRequests(ops)); err != nil {
		// the form exists but is incomplete; surface its id
		return Result{}, newError(ErrBatchUpdate, form.FormId, err)
	}

	link := form.ResponderUri
	if link == "" {
		link = fmt.Sprintf(viewLinkTemplate, form.FormId)
	}
	o.log.Infow("form created", "form_id", form.FormId)
	return Result{FormID: form.FormId, ViewLink: link}, nil
}

// buildRequests realizes the logical operation order against the
// provider. Items get explicit increasing indexes so the rendered form
// preserves question order.
func buildRequests(ops []quiz.Operation) []*forms.Request {
	reqs := make([]*forms.Request, 0, len(ops))
	index := int64(0)
	for _, op := range ops {
		switch op.Kind {
		case quiz.OpEnableQuiz:
			reqs = append(reqs, &forms.Request{
				UpdateSettings: &forms.UpdateSettingsRequest{
					Settings: &forms.FormSettings{
						QuizSettings: &forms.QuizSettings{IsQuiz: true},
					},
					UpdateMask: "quizSettings.isQuiz",
				},
			})
		case quiz.OpAddQuestion:
			reqs = append(reqs, createItemRequest(op, index))
			index++
		case quiz.OpSetDescription:
			reqs = append(reqs, &forms.Request{
				UpdateFormInfo: &forms.UpdateFormInfoRequest{
					Info:       &forms.Info{Description: quiz.Sanitize(op.Description)},
					UpdateMask: "description",
				},
			})
		}
	}
	return reqs
}

func createItemRequest(op quiz.Operation, index int64) *forms.Request {
	q := op.Question
	options := make([]*forms.Option, 0, len(q.Choices))
	for _, c := range q.Choices {
		options = append(options, &forms.Option{Value: quiz.Sanitize(c)})
	}

	question := &forms.Question{
		Required: false,
		ChoiceQuestion: &forms.ChoiceQuestion{
			Type:    "RADIO",
			Options: options,
		},
	}
	if op.Graded {
		question.Grading = &forms.Grading{
			PointValue: q.Points,
			CorrectAnswers: &forms.CorrectAnswers{
				Answers: []*forms.CorrectAnswer{{Value: quiz.Sanitize(q.Correct)}},
			},
			// zero points must still reach the provider
			ForceSendFields: []string{"PointValue"},
		}
	}

	return &forms.Request{
		CreateItem: &forms.CreateItemRequest{
			Item: &forms.Item{
				Title:        quiz.Sanitize(q.Title),
				QuestionItem: &forms.QuestionItem{Question: question},
			},
			Location: &forms.Location{
				Index: index,
				// index 0 would otherwise be omitted from the payload
				ForceSendFields: []string{"Index"},
			},
		},
	}
}
