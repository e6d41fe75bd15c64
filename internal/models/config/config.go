package config

// AppConfig глобальная конфигурация приложения
var AppConfig *Config

// Config основной конфиг
type Config struct {
	Environment string
	HTTPPort    string
	Bot         BotConfig
	Database    DatabaseConfig
	Zibal       ZibalConfig
	Club        ClubConfig
}

type BotConfig struct {
	Token    string
	Debug    bool
	AdminIDs []int64 // ID администраторов для уведомлений
}

// ZibalConfig платёжный шлюз
type ZibalConfig struct {
	Merchant    string
	BaseURL     string // https://gateway.zibal.ir
	CallbackURL string // публичный адрес /payment/callback
}

// ClubConfig закрытая группа и расписание сверки
type ClubConfig struct {
	GroupID   int64 // Telegram ID закрытой группы
	SweepHour int   // час суток для ежедневной сверки, 0-23
}

// IsAdmin проверяет, входит ли telegram_id в список администраторов
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.Bot.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
