package backend

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/mmeshcher/imagine/internal/model"
)

// Форма ответа бэкенда менялась со временем, поэтому все поля пользователя декодируются
// без ошибок: неподходящее значение превращается в пустое.

type userDTO struct {
	ID           flexString    `json:"id"`
	MongoID      flexString    `json:"_id"`
	Name         flexString    `json:"name"`
	Phone        flexString    `json:"phone"`
	UserType     flexString    `json:"usertype"`
	StartDate    flexTime      `json:"start_date"`
	DailyResults flexStrings   `json:"daily_results"`
	MessageSent  flexStrings   `json:"message_sent"`
	Redeemed     redeemedField `json:"redeemed"`
	RedeemBy     redeemByField `json:"redeemby"`
}

func (d userDTO) toModel() model.User {
	id := string(d.ID)
	if id == "" {
		id = string(d.MongoID)
	}

	r := model.Redemption{
		Flags:     d.Redeemed.flags,
		LegacyIDs: d.Redeemed.ids,
		Shape:     d.RedeemBy.shape,
		Redeemer:  d.RedeemBy.single,
		Redeemers: d.RedeemBy.perSlot,
	}

	return model.User{
		ID:           id,
		Name:         string(d.Name),
		Phone:        string(d.Phone),
		UserType:     string(d.UserType),
		StartDate:    d.StartDate.t,
		DailyResults: []string(d.DailyResults),
		MessageSent:  []string(d.MessageSent),
		Redemption:   r,
	}
}

// decodeUsers разбирает массив пользователей. Не-массив даёт пустой список,
// элементы, не являющиеся объектами, пропускаются.
func decodeUsers(raw json.RawMessage) []model.User {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []model.User{}
	}

	users := make([]model.User, 0, len(items))
	for _, item := range items {
		var dto userDTO
		if err := json.Unmarshal(item, &dto); err != nil {
			continue
		}
		users = append(users, dto.toModel())
	}
	return users
}

type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	*s = flexString(scalarString(v))
	return nil
}

type flexStrings []string

// UnmarshalJSON сохраняет выравнивание по индексу: нестроковые элементы становятся пустыми строками.
func (s *flexStrings) UnmarshalJSON(data []byte) error {
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		*s = nil
		return nil
	}

	out := make([]string, len(items))
	for i, item := range items {
		if str, ok := item.(string); ok {
			out[i] = str
		}
	}
	*s = out
	return nil
}

type flexTime struct {
	t *time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	f.t = nil

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}

	switch val := v.(type) {
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, val); err == nil {
				f.set(t)
				return nil
			}
		}
	case float64:
		f.set(time.UnixMilli(int64(val)).UTC())
	}
	return nil
}

// set отбрасывает даты, которые нельзя отдать обратно в JSON.
func (f *flexTime) set(t time.Time) {
	if t.Year() < 0 || t.Year() > 9999 {
		return
	}
	f.t = &t
}

// redeemedField: либо массив строковых булевых значений по слотам, либо устаревший список номеров слотов.
type redeemedField struct {
	flags []string
	ids   []int
}

func (f *redeemedField) UnmarshalJSON(data []byte) error {
	f.flags, f.ids = nil, nil

	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}

	f.flags = make([]string, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			f.flags[i] = v
		case bool:
			f.flags[i] = strconv.FormatBool(v)
		case float64:
			if v == math.Trunc(v) {
				f.ids = append(f.ids, int(v))
			}
		}
	}
	return nil
}

// redeemByField: одиночный идентификатор сотрудника либо массив по слотам.
type redeemByField struct {
	shape   model.RedeemerShape
	single  string
	perSlot []string
}

func (f *redeemByField) UnmarshalJSON(data []byte) error {
	*f = redeemByField{}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}

	switch val := v.(type) {
	case string:
		if val != "" {
			f.shape = model.RedeemerSingle
			f.single = val
		}
	case []any:
		f.shape = model.RedeemerPerSlot
		f.perSlot = make([]string, len(val))
		for i, item := range val {
			f.perSlot[i] = scalarString(item)
		}
	}
	return nil
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return ""
}
