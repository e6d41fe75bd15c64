package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"ascent-club-bot/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler обслуживает callback платёжного шлюза. Подтверждение оплаты
// делает Activation Engine: флагу success из запроса тут не верят.
type Handler struct {
	activationService service.ActivationService
	botName           string
	log               *zap.SugaredLogger
	validate          *validator.Validate
}

func NewHandler(activationService service.ActivationService, botName string, log *zap.SugaredLogger) *Handler {
	return &Handler{
		activationService: activationService,
		botName:           botName,
		log:               log,
		validate:          validator.New(),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.Health)
	r.Get("/payment/callback", h.CallbackPage)
	r.Post("/payment/callback", h.CallbackAPI)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Сервер оплаты работает."))
}

// CallbackPage — возврат покупателя со страницы шлюза (GET)
func (h *Handler) CallbackPage(w http.ResponseWriter, r *http.Request) {
	trackID := r.URL.Query().Get("trackId")
	if trackID == "" {
		http.Error(w, "Параметр trackId обязателен.", http.StatusBadRequest)
		return
	}

	_, err := h.activationService.Activate(r.Context(), trackID)
	switch {
	case err == nil:
		// Активировано сейчас или уже было активировано раньше —
		// для покупателя это одинаково успешная оплата
		h.renderResult(w, successPage)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "Неизвестный платёж.", http.StatusNotFound)
	case errors.Is(err, service.ErrNotPaid), errors.Is(err, service.ErrAlreadyVerified):
		h.renderResult(w, failurePage)
	default:
		h.log.Errorf("Ошибка проверки оплаты %s: %v", trackID, err)
		http.Error(w, "Ошибка при проверке статуса оплаты.", http.StatusInternalServerError)
	}
}

type callbackRequest struct {
	TrackID json.Number `json:"trackId" validate:"required"`
	OrderID string      `json:"orderId"`
	Success json.Number `json:"success"`
}

// CallbackAPI — серверное уведомление шлюза (POST)
func (h *Handler) CallbackAPI(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "некорректное тело запроса"})
			return
		}
	} else {
		req.TrackID = json.Number(r.FormValue("trackId"))
		req.OrderID = r.FormValue("orderId")
	}

	if err := h.validate.Struct(req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "параметр trackId обязателен"})
		return
	}

	activated, err := h.activationService.Activate(r.Context(), req.TrackID.String())
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "activated": activated})
	case errors.Is(err, service.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": "неизвестный платёж"})
	case errors.Is(err, service.ErrNotPaid), errors.Is(err, service.ErrAlreadyVerified):
		h.writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "error": err.Error()})
	default:
		// Сбой проверки не глотаем: шлюз повторит доставку
		h.log.Errorf("Ошибка проверки оплаты %s: %v", req.TrackID, err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "ошибка при проверке статуса оплаты"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Errorf("Ошибка кодирования JSON: %v", err)
	}
}

func (h *Handler) renderResult(w http.ResponseWriter, tmpl *template.Template) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, map[string]string{"BotName": h.botName}); err != nil {
		h.log.Errorf("Ошибка рендеринга страницы: %v", err)
	}
}

var successPage = template.Must(template.New("success").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Оплата прошла</title>
  <style>
    body { font-family: Arial, sans-serif; background-color: #f5f5f5; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; }
    .container { background-color: white; border-radius: 10px; box-shadow: 0 4px 8px rgba(0,0,0,0.1); padding: 30px; text-align: center; max-width: 500px; width: 90%; }
    .icon { color: #4CAF50; font-size: 60px; margin-bottom: 20px; }
    h1 { color: #333; margin-bottom: 15px; }
    p { color: #666; line-height: 1.6; }
    .btn { background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; display: inline-block; font-size: 16px; margin-top: 20px; border-radius: 5px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="icon">✓</div>
    <h1>Оплата прошла успешно</h1>
    <p>Подписка активирована. Вернитесь в Telegram — бот уже прислал детали доступа.</p>
    <a class="btn" href="https://t.me/{{.BotName}}">Вернуться к боту</a>
  </div>
</body>
</html>`))

var failurePage = template.Must(template.New("failure").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Ошибка оплаты</title>
  <style>
    body { font-family: Arial, sans-serif; background-color: #f5f5f5; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; }
    .container { background-color: white; border-radius: 10px; box-shadow: 0 4px 8px rgba(0,0,0,0.1); padding: 30px; text-align: center; max-width: 500px; width: 90%; }
    .icon { color: #F44336; font-size: 60px; margin-bottom: 20px; }
    h1 { color: #333; margin-bottom: 15px; }
    p { color: #666; line-height: 1.6; }
    .btn { background-color: #2196F3; color: white; padding: 10px 20px; text-decoration: none; display: inline-block; font-size: 16px; margin-top: 20px; border-radius: 5px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="icon">✗</div>
    <h1>Оплата не прошла</h1>
    <p>К сожалению, платёж не подтверждён. Вернитесь к боту и попробуйте ещё раз.</p>
    <a class="btn" href="https://t.me/{{.BotName}}">Вернуться к боту</a>
  </div>
</body>
</html>`))
