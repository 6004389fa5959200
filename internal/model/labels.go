package model

import (
	"bytes"
	"encoding/json"
)

// Label pairs a code with its display text.
type Label struct {
	Code string `json:"code" yaml:"code"`
	Text string `json:"text" yaml:"text"`
}

// LabelTable is an ordered code -> display text table. It encodes as a JSON
// object whose keys keep table order.
type LabelTable []Label

// Lookup returns the display text for code.
func (t LabelTable) Lookup(code string) (string, bool) {
	for _, l := range t {
		if l.Code == code {
			return l.Text, true
		}
	}
	return "", false
}

// MarshalJSON writes the table as an object in table order.
func (t LabelTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalNoEscape(l.Code)
		if err != nil {
			return nil, err
		}
		v, err := marshalNoEscape(l.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object back into table order.
func (t *LabelTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	var out LabelTable
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var text string
		if err := dec.Decode(&text); err != nil {
			return err
		}
		out = append(out, Label{Code: key, Text: text})
	}
	*t = out
	return nil
}

func marshalNoEscape(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// CategoryLabels is the static category description table written into every payload.
var CategoryLabels = LabelTable{
	{string(CategoryClubs), "Клубы"},
	{string(CategorySports), "Спорт"},
	{string(CategoryFootball), "Футбол"},
	{string(CategoryBasketball), "Баскетбол"},
	{string(CategorySwimming), "Плавание"},
	{string(CategoryTennis), "Теннис"},
	{string(CategoryMartialArts), "Боевые искусства"},
	{string(CategoryBoosters), "Дополнительные занятия"},
	{string(CategoryVAPP), "Программы для одарённых"},
	{string(CategoryAEN), "Дополнительная поддержка"},
	{string(CategoryEAL), "Английский как доп. язык"},
	{string(CategoryAcademies), "Академии"},
	{string(CategoryDance), "Танцы"},
	{string(CategoryLAMDA), "LAMDA (драма/речь)"},
	{string(CategoryMusic), "Музыка"},
	{string(CategoryArt), "Искусство"},
	{string(CategoryScience), "Наука"},
	{string(CategoryCoding), "Программирование"},
	{string(CategoryRobotics), "Робототехника"},
	{string(CategoryChess), "Шахматы"},
	{string(CategoryLego), "Лего"},
	{string(CategoryReading), "Чтение"},
	{string(CategoryThai), "Тайский язык"},
	{string(CategoryMandarin), "Китайский язык"},
	{string(CategoryFrench), "Французский язык"},
	{string(CategoryRussian), "Русский язык"},
	{string(CategoryFoundation), "Занятия для дошкольников"},
	{string(CategoryOther), "Другое"},
}

// LevelLabels is the static level description table. "unknown" has no entry.
var LevelLabels = LabelTable{
	{string(LevelFoundation), "Foundation (Early Years, Reception)"},
	{string(LevelPrimary), "Primary (Years 1-6)"},
	{string(LevelSecondary), "Secondary (Years 7-13)"},
	{string(LevelMixed), "Смешанный"},
}
