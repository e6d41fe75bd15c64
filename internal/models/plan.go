package models

import "fmt"

// Plan — тариф подписки. Набор фиксированный, как и цены.
type Plan struct {
	Code   string
	Title  string
	Months int
	Amount int64 // в риалах
}

var Plans = []Plan{
	{Code: "monthly", Title: "1 месяц", Months: 1, Amount: 1_500_000},
	{Code: "quarterly", Title: "3 месяца", Months: 3, Amount: 4_000_000},
	{Code: "semiannual", Title: "6 месяцев", Months: 6, Amount: 7_500_000},
	{Code: "yearly", Title: "12 месяцев", Months: 12, Amount: 14_000_000},
}

func PlanByCode(code string) (Plan, error) {
	for _, p := range Plans {
		if p.Code == code {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("неизвестный тариф: %s", code)
}

func PlanByTitle(title string) (Plan, error) {
	for _, p := range Plans {
		if p.Title == title {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("неизвестный тариф: %s", title)
}
