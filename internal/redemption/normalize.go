// Package redemption сводит исторические формы полей redeemed/redeemby к единому виду по слотам.
package redemption

import (
	"slices"
	"strings"

	"github.com/mmeshcher/imagine/internal/model"
	"github.com/mmeshcher/imagine/internal/rewards"
)

// SlotState: состояние погашения одного слота.
type SlotState struct {
	Slot     int     `json:"slot"`
	Redeemed bool    `json:"redeemed"`
	Redeemer *string `json:"redeemer"`
}

// Normalize возвращает состояние всех четырёх слотов.
// activeSlot: слот, погашаемый в текущей операции (0, если операции нет): только к нему
// применяется одиночное значение redeemby.
func Normalize(r model.Redemption, activeSlot int) [rewards.SlotCount]SlotState {
	var out [rewards.SlotCount]SlotState
	for i := range out {
		slot := i + 1
		out[i] = SlotState{
			Slot:     slot,
			Redeemed: isRedeemed(r, i),
			Redeemer: redeemer(r, i, activeSlot),
		}
	}
	return out
}

// IsSlot сообщает, является ли n номером слота.
func IsSlot(n int) bool {
	return n >= 1 && n <= rewards.SlotCount
}

func isRedeemed(r model.Redemption, idx int) bool {
	if idx < len(r.Flags) && strings.EqualFold(strings.TrimSpace(r.Flags[idx]), "true") {
		return true
	}
	return slices.Contains(r.LegacyIDs, idx+1)
}

func redeemer(r model.Redemption, idx, activeSlot int) *string {
	switch r.Shape {
	case model.RedeemerPerSlot:
		if idx < len(r.Redeemers) && r.Redeemers[idx] != "" {
			v := r.Redeemers[idx]
			return &v
		}
	case model.RedeemerSingle:
		if r.Redeemer != "" && idx+1 == activeSlot {
			v := r.Redeemer
			return &v
		}
	}
	return nil
}
