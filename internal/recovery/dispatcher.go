package recovery

import (
	"context"
	"encoding/json"
	"fmt"

	"fashun-backend/internal/cart"
	"fashun-backend/internal/models"
	"fashun-backend/internal/producer"
)

var subjectBySequence = map[int32]string{
	1: "You left something behind — here's 10% off",
	2: "Still thinking it over? Take 15% off",
	3: "Last chance: 20% off your cart",
}

// KafkaDispatcher превращает корзину в письмо и кладёт его в email-топик;
// дальше им занимается notifier
type KafkaDispatcher struct {
	producer *producer.EmailProducer
}

func NewKafkaDispatcher(p *producer.EmailProducer) *KafkaDispatcher {
	return &KafkaDispatcher{producer: p}
}

func (d *KafkaDispatcher) DispatchRecoveryEmail(ctx context.Context, c models.AbandonedCart, sequence int32, offer Offer) error {
	var items []cart.Line
	if err := json.Unmarshal(c.Items, &items); err != nil {
		return fmt.Errorf("unmarshal cart items: %w", err)
	}

	lines := make([]map[string]any, 0, len(items))
	for _, it := range items {
		lines = append(lines, map[string]any{
			"name":     it.Name,
			"size":     it.Size,
			"color":    it.Color,
			"quantity": it.Quantity,
			"price":    formatRupees(it.PriceCents),
			"image":    it.Image,
		})
	}

	msg := producer.EmailMessage{
		To:       c.Email,
		Subject:  subjectBySequence[sequence],
		Template: "cart_recovery",
		Data: map[string]any{
			"customer_name":    c.CustomerName,
			"items":            lines,
			"total":            formatRupees(c.TotalCents),
			"discount_code":    offer.Code,
			"discount_percent": offer.Percent,
			"sequence":         sequence,
		},
	}

	return d.producer.SendEmail(ctx, c.ID.String(), msg)
}

func formatRupees(cents int64) string {
	return fmt.Sprintf("₹%d.%02d", cents/100, cents%100)
}
