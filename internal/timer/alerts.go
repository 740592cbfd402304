package timer

import "github.com/sadopc/kidstimer/internal/state"

type Alert string

const (
	AlertOneMinute         Alert = "one_minute"
	AlertFiveMinutes       Alert = "five_minutes"
	AlertFiftyPercent      Alert = "fifty_percent"
	AlertTwentyFivePercent Alert = "twenty_five_percent"
)

// threshold returns the remaining-seconds mark for an alert in a phase of
// total seconds.
func (a Alert) threshold(total int) int {
	switch a {
	case AlertOneMinute:
		return 60
	case AlertFiveMinutes:
		return 300
	case AlertFiftyPercent:
		return total / 2
	case AlertTwentyFivePercent:
		return total / 4
	}
	return 0
}

func (a Alert) Message() string {
	switch a {
	case AlertOneMinute:
		return "Falta 1 minuto!"
	case AlertFiveMinutes:
		return "Faltam 5 minutos!"
	case AlertFiftyPercent:
		return "Metade do caminho!"
	case AlertTwentyFivePercent:
		return "Só falta um pouquinho!"
	}
	return ""
}

// crossed lists enabled alerts whose threshold lies in [cur, prev). A
// threshold at or above the phase length never fires, so a one-minute phase
// does not announce "one minute left" as it starts.
func crossed(ts *state.TimerState, prev, cur int, enabled state.Alerts) []Alert {
	var out []Alert
	for _, c := range []struct {
		alert Alert
		on    bool
	}{
		{AlertFiveMinutes, enabled.FiveMinutes},
		{AlertFiftyPercent, enabled.FiftyPercent},
		{AlertTwentyFivePercent, enabled.TwentyFivePercent},
		{AlertOneMinute, enabled.OneMinute},
	} {
		if !c.on {
			continue
		}
		th := c.alert.threshold(ts.TotalTime)
		if th <= 0 || th >= ts.TotalTime {
			continue
		}
		if prev > th && cur <= th {
			out = append(out, c.alert)
		}
	}
	return out
}
