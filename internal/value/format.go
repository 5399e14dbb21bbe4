package value

import (
	"fmt"
	"strings"

	"github.com/mjgrzymek/PeanoScript/internal/types"
)

// Format renders v for console.log. t is the static type of v; it supplies
// the field names of dependent pairs and may be nil.
func Format(v Value, t types.Type) string {
	var sb strings.Builder
	format(&sb, v, t)
	return sb.String()
}

func format(sb *strings.Builder, v Value, t types.Type) {
	switch x := v.(type) {
	case Nat:
		sb.WriteString(x.N.String())
	case Witness:
		sb.WriteString(string(x))
	case Func:
		sb.WriteString("(func)")
	case Pair:
		l, r := sides(t)
		sb.WriteString("{left: ")
		format(sb, x.Left, l)
		sb.WriteString(", right: ")
		format(sb, x.Right, r)
		sb.WriteByte('}')
	case Left:
		l, _ := sides(t)
		sb.WriteString("{left: ")
		format(sb, x.X, l)
		sb.WriteByte('}')
	case Right:
		_, r := sides(t)
		sb.WriteString("{right: ")
		format(sb, x.X, r)
		sb.WriteByte('}')
	case Exists:
		numName, propName := "@num", "@prop"
		var propType types.Type
		if st, ok := t.(types.Struct); ok {
			numName, propName, propType = st.NumName, st.PropName, st.Prop
		}
		fmt.Fprintf(sb, "{%s: %s, %s: ", numName, x.Num.String(), propName)
		format(sb, x.Prop, propType)
		sb.WriteByte('}')
	case nil:
		sb.WriteString("undefined")
	default:
		fmt.Fprintf(sb, "%v", x)
	}
}

func sides(t types.Type) (l, r types.Type) {
	switch s := t.(type) {
	case types.And:
		return s.L, s.R
	case types.Or:
		return s.L, s.R
	}
	return nil, nil
}
