package models

// Native maps v to the value a SQL engine stores for it: int64, float64,
// string, bool or nil. Date and duration serials stay numeric; ISO text and
// error tokens stay text.
func (v CellValue) Native() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat, KindDateTime, KindDuration:
		return v.f
	case KindString, KindDateTimeISO, KindDurationISO:
		return v.s
	case KindBool:
		return v.b
	case KindError:
		return v.s
	default:
		return nil
	}
}
