// Package fee содержит расчёт сервисного сбора при назначении аренды.
package fee

// Процент сервисного сбора от суммы аренды.
const serviceRatePercent = 3

// Service считает сервисный сбор: 3% от суммы, округлённые
// до ближайшей целой единицы (половина — вверх).
func Service(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return (amount*serviceRatePercent + 50) / 100
}

// Total возвращает полную сумму к оплате: аренда плюс сервисный сбор.
func Total(amount int64) int64 {
	return amount + Service(amount)
}
