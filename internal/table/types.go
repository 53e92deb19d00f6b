package table

const (
	NullType ValueType = iota
	TextType
	IntType
	FloatType
	BoolType
	DateTimeType
)

// ValueType is the semantic type of a cell or of a whole column.
type ValueType uint8

func (v ValueType) String() string {
	switch v {
	case NullType:
		return "null"
	case TextType:
		return "text"
	case IntType:
		return "integer"
	case FloatType:
		return "floating-point"
	case BoolType:
		return "boolean"
	case DateTimeType:
		return "datetime"
	}

	return "unknown"
}

var typeGeneralizationMap = map[[2]ValueType]ValueType{
	{BoolType, IntType}:   IntType,
	{IntType, FloatType}:  FloatType,
	{BoolType, FloatType}: FloatType,
}

// GeneralizeType returns the more general of two types. Null is the
// identity and text absorbs every other combination.
func GeneralizeType(t1, t2 ValueType) ValueType {
	if t1 == t2 {
		return t1
	}

	if t1 == NullType {
		return t2
	}

	if t2 == NullType {
		return t1
	}

	key := [2]ValueType{t1, t2}
	if t, ok := typeGeneralizationMap[key]; ok {
		return t
	}

	key[0], key[1] = key[1], key[0]
	if t, ok := typeGeneralizationMap[key]; ok {
		return t
	}

	return TextType
}
