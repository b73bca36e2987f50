package query

import "fmt"

// paramDataType is the numeric column-type tag stored in a parameter row's
// Flag field; the mapping to a display name is fixed by Access (§4.2
// "Parameter formatting").
type paramDataType int16

const (
	typeBit         paramDataType = 1
	typeByte        paramDataType = 2
	typeShort       paramDataType = 3
	typeLong        paramDataType = 4
	typeCurrency    paramDataType = 5
	typeIEEESingle  paramDataType = 6
	typeIEEEDouble  paramDataType = 7
	typeDateTime    paramDataType = 8
	typeBinary      paramDataType = 9
	typeText        paramDataType = 10
	typeLongBinary  paramDataType = 11
	typeGuid        paramDataType = 15
)

var paramTypeNames = map[paramDataType]string{
	typeBit:        "Bit",
	typeByte:       "Byte",
	typeShort:      "Short",
	typeLong:       "Long",
	typeCurrency:   "Currency",
	typeIEEESingle: "IEEESingle",
	typeIEEEDouble: "IEEEDouble",
	typeDateTime:   "DateTime",
	typeBinary:     "Binary",
	typeText:       "Text",
	typeLongBinary: "LongBinary",
	typeGuid:       "Guid",
}

// renderParameter emits `<name> <typeName>`, appending `(<extra>)` for TEXT
// parameters carrying a positive length (§4.2).
func renderParameter(r Row) string {
	name := r.expr()
	typeName, ok := paramTypeNames[paramDataType(r.flag())]
	if !ok {
		typeName = "Value"
	}
	if paramDataType(r.flag()) == typeText && r.extra() > 0 {
		return fmt.Sprintf("%s %s(%d)", name, typeName, r.extra())
	}
	return fmt.Sprintf("%s %s", name, typeName)
}

// renderParameters renders the full `PARAMETERS ...;` clause, or "" when
// there are no parameter rows.
func renderParameters(rows RowSet) string {
	params := rows.byAttribute(AttrParameter)
	if len(params) == 0 {
		return ""
	}
	out := "PARAMETERS "
	for i, p := range params {
		if i > 0 {
			out += ", "
		}
		out += renderParameter(p)
	}
	return out + ";"
}
