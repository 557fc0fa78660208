package telegram

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"formsquizbot/internal/gforms"
	"formsquizbot/internal/quiz"
)

// User-facing replies. The bot speaks the language of its quiz format.
const (
	msgWelcome = "👋 أهلاً بك!\n" +
		"أرسل لي الآن ملف الأسئلة (.txt)\n" +
		"أو الصق الأسئلة مباشرة في الرسالة.\n\n" +
		"كل سؤال يجب أن يكون مثل المثال التالي:\n" +
		"سؤال: ما عاصمة مصر؟\n" +
		"اختيارات: القاهرة | باريس | لندن\n" +
		"إجابة: القاهرة\n" +
		"نقاط: 1\n"
	msgSendSource     = "⚠️ الرجاء إرسال نص الأسئلة أو ملف .txt."
	msgAskTitle       = "🎯 من فضلك أدخل اسم الكويز:"
	msgEmptyTitle     = "⚠️ لا يمكن ترك الاسم فارغًا. حاول مرة أخرى:"
	msgCreating       = "⏳ جاري إنشاء النموذج، يرجى الانتظار قليلاً..."
	msgWrongFileType  = "⚠️ من فضلك أرسل ملف .txt فقط."
	msgDownloadFailed = "⚠️ تعذر تنزيل الملف. حاول مرة أخرى."
	msgNoQuestions    = "⚠️ لم يتم العثور على أي أسئلة صالحة في النص المرسل."
	msgResetDone      = "🔄 تمت إعادة الضبط. أرسل /create للبدء من جديد."
	msgUnknownCommand = "الأوامر المتاحة: /start /help /create /reset"
	msgSuccess        = "✅ تم إنشاء الكويز بنجاح!"
	msgFailure        = "❌ حدث خطأ أثناء الإنشاء:"
	msgPartialForm    = "تم إنشاء النموذج لكنه غير مكتمل (المعرف: %s)."
	msgBadAnswer      = "⚠️ الإجابة '%s' غير موجودة ضمن الخيارات للسؤال '%s'"

	btnOpenLink = "🔗 فتح الكويز"
	btnNewQuiz  = "🆕 كويز جديد"

	callbackNewQuiz = "create_new"
)

// sender is the outbound half of the Telegram API the handler needs.
// *tgbotapi.BotAPI satisfies it.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// fileDownloader fetches an uploaded document to a local path.
type fileDownloader interface {
	Download(ctx context.Context, fileID, dest string) error
}

// QuizCreator runs the provider side of the pipeline.
// *gforms.Orchestrator satisfies it.
type QuizCreator interface {
	CreateQuiz(ctx context.Context, title string, ops []quiz.Operation) (gforms.Result, error)
}

// Handler drives the per-chat creation state machine. It is called from
// per-chat workers, so handling within one chat is always serialized.
type Handler struct {
	api      sender
	files    fileDownloader
	sessions *SessionManager
	creator  QuizCreator
	tempDir  string
	log      *zap.SugaredLogger
}

func NewHandler(api sender, files fileDownloader, sessions *SessionManager, creator QuizCreator, tempDir string, log *zap.SugaredLogger) *Handler {
	return &Handler{
		api:      api,
		files:    files,
		sessions: sessions,
		creator:  creator,
		tempDir:  tempDir,
		log:      log,
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		h.handleCallback(update.CallbackQuery)
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help", "create":
			h.sessions.Start(chatID)
			h.sendMessage(chatID, msgWelcome)
		case "reset":
			h.sessions.Destroy(chatID)
			h.sendMessage(chatID, msgResetDone)
		default:
			h.sendMessage(chatID, msgUnknownCommand)
		}
		return
	}

	s := h.sessions.GetOrStart(chatID)

	if msg.Document != nil {
		h.handleDocument(ctx, s, msg.Document)
		return
	}

	text := strings.TrimSpace(msg.Text)
	switch s.Phase {
	case PhaseAwaitingSource:
		if text == "" {
			h.sendMessage(chatID, msgSendSource)
			return
		}
		s.InlineText = msg.Text
		s.Phase = PhaseAwaitingTitle
		h.sendMessage(chatID, msgAskTitle)
	case PhaseAwaitingTitle:
		if text == "" {
			h.sendMessage(chatID, msgEmptyTitle)
			return
		}
		s.Title = text
		s.Phase = PhaseCreating
		h.sendMessage(chatID, msgCreating)
		h.runCreation(ctx, s)
	case PhaseCreating:
		// creation is synchronous for the chat; nothing should land here
	}
}

func (h *Handler) handleDocument(ctx context.Context, s *Session, doc *tgbotapi.Document) {
	chatID := s.ChatID

	if s.Phase != PhaseAwaitingSource {
		h.sendMessage(chatID, msgSendSource)
		return
	}
	if !acceptableDocument(doc) {
		h.sendMessage(chatID, msgWrongFileType)
		return
	}

	dest := filepath.Join(h.tempDir, "questions-"+uuid.NewString()+".txt")
	if err := h.files.Download(ctx, doc.FileID, dest); err != nil {
		h.log.Warnw("document download failed", "chat_id", chatID, "err", err)
		h.sendMessage(chatID, msgDownloadFailed)
		return
	}

	s.FilePath = dest
	s.InlineText = ""
	s.Phase = PhaseAwaitingTitle
	h.sendMessage(chatID, msgAskTitle)
}

func acceptableDocument(doc *tgbotapi.Document) bool {
	if doc.MimeType == "text/plain" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(doc.FileName), ".txt")
}

// runCreation runs materialize → parse → compile → create and tears the
// session down on every path.
func (h *Handler) runCreation(ctx context.Context, s *Session) {
	chatID := s.ChatID
	defer h.sessions.Destroy(chatID)

	raw, err := s.sourceText()
	if err != nil {
		h.log.Errorw("failed to read question source", "chat_id", chatID, "err", err)
		h.sendMessage(chatID, msgFailure+"\n"+err.Error())
		return
	}

	def := quiz.Parse(raw)
	if len(def) == 0 {
		h.sendMessage(chatID, msgNoQuestions)
		return
	}

	ops, warnings := quiz.Compile(def, "")
	res, err := h.creator.CreateQuiz(ctx, s.Title, ops)
	if err != nil {
		h.log.Errorw("quiz creation failed", "chat_id", chatID, "err", err)
		h.sendMessage(chatID, failureText(err))
		return
	}

	h.log.Infow("quiz created", "chat_id", chatID, "form_id", res.FormID, "questions", len(def))
	h.sendResult(chatID, res, warnings)
}

func failureText(err error) string {
	text := msgFailure + "\n" + err.Error()
	var perr *gforms.Error
	if errors.As(err, &perr) && perr.FormID != "" {
		text += "\n" + fmt.Sprintf(msgPartialForm, perr.FormID)
	}
	return text
}

func (h *Handler) sendResult(chatID int64, res gforms.Result, warnings []quiz.Warning) {
	text := msgSuccess + "\n\n🔗 " + res.ViewLink
	for _, w := range warnings {
		text += "\n" + fmt.Sprintf(msgBadAnswer, w.Answer, w.QuestionTitle)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(btnOpenLink, res.ViewLink),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnNewQuiz, callbackNewQuiz),
		),
	)
	if _, err := h.api.Send(msg); err != nil {
		h.log.Errorw("error sending result", "chat_id", chatID, "err", err)
	}
}

func (h *Handler) handleCallback(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	ack := tgbotapi.NewCallback(callback.ID, "")
	if _, err := h.api.Request(ack); err != nil {
		h.log.Warnw("error answering callback", "err", err)
	}

	switch callback.Data {
	case callbackNewQuiz:
		h.sessions.Start(chatID)
		h.sendMessage(chatID, msgWelcome)
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		h.log.Errorw("error sending message", "chat_id", chatID, "err", err)
	}
}
