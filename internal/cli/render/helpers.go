package render

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	labelStyle   = color.New(color.FgWhite, color.Faint)
	headerStyle  = color.New(color.Bold, color.FgHiWhite)
	contractName = color.New(color.FgCyan, color.Bold)
	addressStyle = color.New(color.FgWhite)
	valueStyle   = color.New(color.FgYellow)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Multi-line errors (ambiguous matches) keep their layout
	first, rest, _ := strings.Cut(message, "\n")
	if len(first) > 0 {
		first = strings.ToUpper(first[:1]) + first[1:]
	}
	if rest != "" {
		return color.New(color.FgRed).Sprintf("❌ %s", first) + "\n" + rest
	}
	return color.New(color.FgRed).Sprintf("❌ %s", first)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// title upper-cases the first letter of each word, e.g. "hardhat" -> "Hardhat"
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// formatValue renders a decoded ABI value for humans
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return fmt.Sprintf("%q", val)
	case common.Address:
		return val.Hex()
	case []byte:
		return hexutil.Encode(val)
	case *big.Int:
		return val.String()
	case [32]byte:
		return hexutil.Encode(val[:])
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatWei renders the transaction value field
func formatWei(value string) string {
	if value == "" {
		return "0"
	}
	return value + " wei"
}

// byteLen returns the payload length of a 0x-prefixed hex string
func byteLen(data string) int {
	return len(strings.TrimPrefix(data, "0x")) / 2
}
