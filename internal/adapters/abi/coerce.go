package abi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/trebuchet-org/deploytx/internal/domain"
)

// maxSafeFloat is the largest integer a float64 holds exactly
const maxSafeFloat = 1 << 53

var bigIntType = reflect.TypeOf(&big.Int{})

// CoerceArguments converts raw values into the Go types go-ethereum packs for inputs.
// Errors are reported as *domain.EncodingError tied to the failing argument.
func CoerceArguments(method string, inputs abi.Arguments, args []any) ([]any, error) {
	if len(args) != len(inputs) {
		return nil, &domain.EncodingError{
			Method: method,
			Index:  -1,
			Err:    fmt.Errorf("%w: expected %d, got %d", domain.ErrArgumentCount, len(inputs), len(args)),
		}
	}

	values := make([]any, len(inputs))
	for i, input := range inputs {
		v, err := Coerce(input.Type, args[i])
		if err != nil {
			return nil, &domain.EncodingError{
				Method: method,
				Index:  i,
				Name:   input.Name,
				Type:   input.Type.String(),
				Err:    err,
			}
		}
		values[i] = v
	}
	return values, nil
}

// Coerce converts a loosely typed value into the Go type go-ethereum packs for t.
// Strings are accepted for every kind. Lists, maps, numbers and bools come from
// YAML or JSON argument files.
func Coerce(t abi.Type, raw any) (any, error) {
	v, err := coerceValue(t, raw)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func coerceValue(t abi.Type, raw any) (reflect.Value, error) {
	switch t.T {
	case abi.IntTy, abi.UintTy:
		n, err := toBigInt(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		if err := checkIntRange(t, n); err != nil {
			return reflect.Value{}, err
		}
		return intValue(t, n), nil

	case abi.BoolTy:
		switch v := raw.(type) {
		case bool:
			return reflect.ValueOf(v), nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %q is not a bool", domain.ErrArgumentType, v)
			}
			return reflect.ValueOf(b), nil
		}

	case abi.StringTy:
		if s, ok := raw.(string); ok {
			return reflect.ValueOf(s), nil
		}

	case abi.AddressTy:
		switch v := raw.(type) {
		case common.Address:
			return reflect.ValueOf(v), nil
		case string:
			addr, err := parseAddress(strings.TrimSpace(v))
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(addr), nil
		}

	case abi.BytesTy:
		b, err := toBytes(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b), nil

	case abi.FixedBytesTy, abi.HashTy:
		b, err := toBytes(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		if len(b) != t.Size {
			return reflect.Value{}, fmt.Errorf("%w: %s needs exactly %d bytes, got %d", domain.ErrArgumentType, t.String(), t.Size, len(b))
		}
		out := reflect.New(t.GetType()).Elem()
		reflect.Copy(out, reflect.ValueOf(b))
		return out, nil

	case abi.SliceTy, abi.ArrayTy:
		return coerceList(t, raw)

	case abi.TupleTy:
		return coerceTuple(t, raw)

	default:
		return reflect.Value{}, fmt.Errorf("%w: unsupported ABI type %s", domain.ErrArgumentType, t.String())
	}

	return reflect.Value{}, fmt.Errorf("%w: cannot use %T as %s", domain.ErrArgumentType, raw, t.String())
}

func coerceList(t abi.Type, raw any) (reflect.Value, error) {
	items, err := toList(raw)
	if err != nil {
		return reflect.Value{}, err
	}

	var out reflect.Value
	if t.T == abi.ArrayTy {
		if len(items) != t.Size {
			return reflect.Value{}, fmt.Errorf("%w: %s needs %d elements, got %d", domain.ErrArgumentType, t.String(), t.Size, len(items))
		}
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), len(items), len(items))
	}

	for i, item := range items {
		v, err := coerceValue(*t.Elem, item)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

func coerceTuple(t abi.Type, raw any) (reflect.Value, error) {
	if s, ok := raw.(string); ok {
		decoded, err := decodeJSON(s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: tuple must be a JSON object or array: %v", domain.ErrArgumentType, err)
		}
		raw = decoded
	}

	var fields []any
	switch v := raw.(type) {
	case []any:
		fields = v
	case map[string]any:
		missing := lo.Filter(t.TupleRawNames, func(name string, _ int) bool {
			_, ok := v[name]
			return !ok
		})
		if len(missing) > 0 {
			return reflect.Value{}, fmt.Errorf("%w: tuple is missing %s", domain.ErrArgumentType, strings.Join(missing, ", "))
		}
		if len(v) != len(t.TupleRawNames) {
			extra := lo.Without(lo.Keys(v), t.TupleRawNames...)
			return reflect.Value{}, fmt.Errorf("%w: unknown tuple fields %s", domain.ErrArgumentType, strings.Join(extra, ", "))
		}
		fields = lo.Map(t.TupleRawNames, func(name string, _ int) any { return v[name] })
	default:
		return reflect.Value{}, fmt.Errorf("%w: cannot use %T as %s", domain.ErrArgumentType, raw, t.String())
	}

	if len(fields) != len(t.TupleElems) {
		return reflect.Value{}, fmt.Errorf("%w: tuple needs %d fields, got %d", domain.ErrArgumentType, len(t.TupleElems), len(fields))
	}

	out := reflect.New(t.TupleType).Elem()
	for i, elem := range t.TupleElems {
		v, err := coerceValue(*elem, fields[i])
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %s: %w", t.TupleRawNames[i], err)
		}
		out.Field(i).Set(v)
	}
	return out, nil
}

// parseAddress accepts all-lowercase or all-uppercase hex as is; mixed case must carry a valid EIP-55 checksum
func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, s)
	}

	body := s
	if len(body) == 2*common.AddressLength+2 {
		body = body[2:]
	}
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return common.HexToAddress(s), nil
	}

	mixed, err := common.NewMixedcaseAddressFromString("0x" + body)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, s)
	}
	if !mixed.ValidChecksum() {
		return common.Address{}, fmt.Errorf("%w: %q has an invalid checksum", domain.ErrInvalidAddress, s)
	}
	return mixed.Address(), nil
}

// parseInteger reads an optionally negative decimal or 0x hex integer.
// Leading zeros stay decimal; other base prefixes and digit separators are rejected.
func parseInteger(s string) (*big.Int, bool) {
	digits, negative := strings.CutPrefix(s, "-")
	base := 10
	if len(digits) > 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		digits, base = digits[2:], 16
	}
	if digits == "" || strings.ContainsAny(digits, "+-") {
		return nil, false
	}

	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, false
	}
	if negative {
		n.Neg(n)
	}
	return n, true
}

// toBigInt accepts decimal or 0x-prefixed strings and integral numbers
func toBigInt(raw any) (*big.Int, error) {
	switch v := raw.(type) {
	case string:
		n, ok := parseInteger(strings.TrimSpace(v))
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an integer", domain.ErrArgumentType, v)
		}
		return n, nil
	case json.Number:
		n, ok := new(big.Int).SetString(v.String(), 10)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not an integer", domain.ErrArgumentType, v)
		}
		return n, nil
	case *big.Int:
		return new(big.Int).Set(v), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: %v is not an integer", domain.ErrArgumentType, v)
		}
		if math.Abs(v) > maxSafeFloat {
			return nil, fmt.Errorf("%w: %v loses precision, quote large integers", domain.ErrArgumentType, v)
		}
		return big.NewInt(int64(v)), nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as an integer", domain.ErrArgumentType, raw)
}

func checkIntRange(t abi.Type, n *big.Int) error {
	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return fmt.Errorf("%w: negative value for %s", domain.ErrArgumentType, t.String())
		}
		if n.BitLen() > t.Size {
			return fmt.Errorf("%w: %s overflows %s", domain.ErrArgumentType, n, t.String())
		}
		return nil
	}

	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
	maxVal := new(big.Int).Sub(limit, big.NewInt(1))
	minVal := new(big.Int).Neg(limit)
	if n.Cmp(minVal) < 0 || n.Cmp(maxVal) > 0 {
		return fmt.Errorf("%w: %s overflows %s", domain.ErrArgumentType, n, t.String())
	}
	return nil
}

// intValue returns n in the Go type used for t: a sized int for 8/16/32/64 bits, *big.Int otherwise
func intValue(t abi.Type, n *big.Int) reflect.Value {
	typ := t.GetType()
	if typ == bigIntType {
		return reflect.ValueOf(n)
	}

	out := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.SetInt(n.Int64())
	default:
		out.SetUint(n.Uint64())
	}
	return out
}

// toBytes decodes hex strings with or without the 0x prefix
func toBytes(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case []byte:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "0x" {
			return []byte{}, nil
		}
		if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
			s = "0x" + s
		}
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not valid hex: %v", domain.ErrArgumentType, v, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as bytes", domain.ErrArgumentType, raw)
}

// toList accepts a JSON array string or any slice value
func toList(raw any) ([]any, error) {
	switch v := raw.(type) {
	case []any:
		return v, nil
	case string:
		decoded, err := decodeJSON(v)
		if err != nil {
			return nil, fmt.Errorf("%w: list must be a JSON array: %v", domain.ErrArgumentType, err)
		}
		items, ok := decoded.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: list must be a JSON array", domain.ErrArgumentType)
		}
		return items, nil
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items, nil
	}
	return nil, fmt.Errorf("%w: cannot use %T as a list", domain.ErrArgumentType, raw)
}

// decodeJSON keeps numbers as json.Number so large integers survive
func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
