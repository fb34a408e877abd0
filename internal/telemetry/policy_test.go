package telemetry

import "testing"

func TestDefaultPolicyOrdering(t *testing.T) {
	p := DefaultPolicy()
	errLog := Message{Kind: KindLog, Log: &LogPayload{Severity: SeverityError}}
	infoLog := Message{Kind: KindLog, Log: &LogPayload{Severity: SeverityInfo}}
	sensor := Message{Kind: KindSensorData}

	if !(p.Rank(errLog) < p.Rank(infoLog)) {
		t.Error("error log should outrank info log")
	}
	if !(p.Rank(infoLog) < p.Rank(sensor)) {
		t.Error("log should outrank sensor data")
	}
}

func TestPolicyConfigurableOrder(t *testing.T) {
	p := NewPolicy([]Kind{KindSensorData, KindLog}, false)
	log := Message{Kind: KindLog, Log: &LogPayload{Severity: SeverityError}}
	sensor := Message{Kind: KindSensorData}

	if !(p.Rank(sensor) < p.Rank(log)) {
		t.Error("configured order should put sensor data first")
	}
}

func TestPolicyWithoutErrorRefinement(t *testing.T) {
	p := NewPolicy([]Kind{KindLog, KindSensorData}, false)
	errLog := Message{Kind: KindLog, Log: &LogPayload{Severity: SeverityError}}
	infoLog := Message{Kind: KindLog, Log: &LogPayload{Severity: SeverityInfo}}

	if p.Rank(errLog) != p.Rank(infoLog) {
		t.Error("severity should not affect rank when refinement is off")
	}
}

func TestPolicyUnlistedKindRanksLast(t *testing.T) {
	p := NewPolicy([]Kind{KindLog}, false)
	log := Message{Kind: KindLog}
	sensor := Message{Kind: KindSensorData}

	if !(p.Rank(log) < p.Rank(sensor)) {
		t.Error("unlisted kind should rank below listed kinds")
	}
}
