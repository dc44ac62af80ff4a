package awards

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// StatusLines renders one progress line per configured goal, for the startup
// summary and the periodic ticker.
func (e *Engine) StatusLines() []string {
	t := e.Tables()
	if t == nil {
		return nil
	}
	goals := e.settings.Goals
	var out []string

	if goals["C"] {
		out = append(out, tierStatus("C", "Centurion", len(t.Centurion), CenturionIncrement))
	}
	if goals["T"] {
		out = append(out, tierStatus("T", "Tribune", len(t.Tribune), TribuneIncrement))
	}
	if goals["S"] {
		out = append(out, tierStatus("S", "Senator", len(t.Senator), SenatorIncrement))
	}
	if goals["WAS"] {
		out = append(out, fmt.Sprintf("WAS: %d of 50 states", len(t.WAS)))
	}
	if goals["WAS-C"] {
		out = append(out, fmt.Sprintf("WAS-C: %d of 50 states", len(t.WASC)))
	}
	if goals["WAS-T"] {
		out = append(out, fmt.Sprintf("WAS-T: %d of 50 states", len(t.WAST)))
	}
	if goals["WAS-S"] {
		out = append(out, fmt.Sprintf("WAS-S: %d of 50 states", len(t.WASS)))
	}
	if goals["P"] {
		out = append(out, fmt.Sprintf("P: %s points across %d prefixes",
			humanize.Comma(int64(t.PrefixScore())), len(t.Prefixes)))
	}
	if goals["BRAG"] {
		out = append(out, fmt.Sprintf("BRAG %s: %d members",
			t.BragMonth.Format("Jan 2006"), len(t.Brag)))
	}
	if goals["K3Y"] && e.settings.K3YYear != 0 {
		slots := 0
		for _, bands := range t.K3Y {
			slots += len(bands)
		}
		out = append(out, fmt.Sprintf("K3Y %d: %d slots worked", e.settings.K3YYear, slots))
	}
	return out
}

func tierStatus(code, name string, count, increment int) string {
	if count < increment {
		return fmt.Sprintf("%s: %s of %s toward %s",
			code, humanize.Comma(int64(count)), humanize.Comma(int64(increment)), name)
	}
	return fmt.Sprintf("%s: %sx%d, %s more for x%d",
		code,
		code, Level(count, increment),
		humanize.Comma(int64(Remaining(count, increment))),
		NextLevel(count, increment))
}
