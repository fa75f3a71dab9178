package roi

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tranvu/roitrack/internal/provider"
)

// Report bundles everything the composer needs for one run.
type Report struct {
	Snapshot provider.AccountSnapshot
	Results  []Result
}

// Compose renders the report text. Pure formatting: account identity,
// equity/balance, and one line per period with a signed percentage and
// the baseline anchor, or N/A when a figure is unavailable.
func Compose(r Report) string {
	var b strings.Builder

	b.WriteString("==== ROI Report ====\n")
	fmt.Fprintf(&b, "Account: %s @ %s\n", r.Snapshot.Login, r.Snapshot.Server)
	fmt.Fprintf(&b, "Equity: $%s | Balance: $%s\n",
		FormatMoney(r.Snapshot.Equity), FormatMoney(r.Snapshot.Balance))

	for _, res := range r.Results {
		line := fmt.Sprintf("%-6s %s", res.Key.Label()+":", FormatPercent(res.Percent))
		if res.Simple.Valid {
			line += fmt.Sprintf(" [sum %s]", FormatPercent(res.Simple))
		}
		if !res.Since.IsZero() {
			line += fmt.Sprintf(" (since %s)", res.Since.Format(time.RFC3339))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatPercent renders a nullable percentage with an explicit sign,
// two decimal places, or N/A when the value is absent.
func FormatPercent(p decimal.NullDecimal) string {
	if !p.Valid {
		return "N/A"
	}
	sign := ""
	if p.Decimal.Sign() >= 0 {
		sign = "+"
	}
	return sign + p.Decimal.StringFixed(2) + "%"
}

// FormatMoney renders a money amount with thousands separators and two
// decimal places.
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ",") + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
