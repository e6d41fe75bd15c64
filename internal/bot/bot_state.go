package bot

type BotState int

const (
	StateDefault BotState = iota

	// Состояния покупки подписки
	StateAwaitingContact
	StateSelectingPlan

	// Состояние обращения к администраторам
	StateAwaitingSupportMessage
)

// UserSession — состояние диалога одного чата. Живёт только в памяти
// процесса и никогда не разделяется между чатами.
type UserSession struct {
	State BotState
}

func (b *Bot) getOrCreateSession(chatID int64) *UserSession {
	b.mu.Lock()
	defer b.mu.Unlock()

	if session, exists := b.userSessions[chatID]; exists {
		return session
	}

	session := &UserSession{State: StateDefault}
	b.userSessions[chatID] = session
	return session
}

func (b *Bot) resetSession(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.userSessions[chatID] = &UserSession{State: StateDefault}
}
