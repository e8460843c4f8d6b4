package cart

import "strings"

// DiscountPolicy отделяет список кодов от логики корзины:
// коды меняются конфигурацией, агрегат не трогаем
type DiscountPolicy interface {
	// Resolve возвращает процент скидки по коду
	Resolve(code string) (percent int32, ok bool)
}

type StaticDiscounts map[string]int32

func (d StaticDiscounts) Resolve(code string) (int32, bool) {
	rate, ok := d[strings.ToUpper(strings.TrimSpace(code))]
	return rate, ok
}

// DefaultDiscounts — действующие промокоды витрины
func DefaultDiscounts() StaticDiscounts {
	return StaticDiscounts{
		"WELCOME10": 10,
		"SAVE20":    20,
		"STUDENT15": 15,
	}
}
