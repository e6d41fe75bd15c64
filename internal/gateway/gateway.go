package gateway

import "context"

// Коды результата шлюза
const (
	ResultConfirmed       = 100 // платёж подтверждён
	ResultAlreadyVerified = 201 // уже подтверждался ранее
	ResultNotPaid         = 202 // оплата не прошла или не завершена
)

type VerifyResult struct {
	Result    int    `json:"result"`
	Amount    int64  `json:"amount"`
	RefNumber int64  `json:"refNumber"`
	PaidAt    string `json:"paidAt"`
	Message   string `json:"message"`
}

type RequestResult struct {
	Result  int    `json:"result"`
	TrackID int64  `json:"trackId"`
	Message string `json:"message"`
}

// PaymentGateway — платёжный шлюз (Зибал)
type PaymentGateway interface {
	// Request заводит платёж и возвращает trackId и адрес редиректа
	Request(ctx context.Context, amount int64, orderID, description string) (trackID string, payURL string, err error)
	Verify(ctx context.Context, trackID string) (*VerifyResult, error)
}

// Messenger отправляет личные сообщения подписчикам
type Messenger interface {
	SendMessage(ctx context.Context, telegramID int64, text string) error
}

// GroupGateway управляет составом закрытой группы
type GroupGateway interface {
	AddMember(ctx context.Context, groupID, telegramID int64) error
	RemoveMember(ctx context.Context, groupID, telegramID int64) error
	CreateInviteLink(ctx context.Context, groupID int64) (string, error)
}
