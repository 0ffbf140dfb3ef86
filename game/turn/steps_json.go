package turn

import (
	"encoding/json"
	"fmt"
)

// StepList carries effect steps across a JSON boundary with their type tags.
// Marshaling injects each step's discriminator; unmarshaling decodes known
// tags to their concrete types and preserves unknown ones as UnknownStep so
// old appliers can carry (and ignore) steps they don't understand.
type StepList []EffectStep

// UnknownStep holds a step whose tag this build does not recognize. The
// applier treats it as a no-op; re-marshaling reproduces the original bytes.
type UnknownStep struct {
	Tag string
	Raw json.RawMessage
}

func (s UnknownStep) StepType() string { return s.Tag }

func (l StepList) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(l))
	for _, step := range l {
		if u, ok := step.(UnknownStep); ok {
			out = append(out, u.Raw)
			continue
		}
		body, err := json.Marshal(step)
		if err != nil {
			return nil, err
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, err
		}
		fields["type"] = step.StepType()
		tagged, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		out = append(out, tagged)
	}
	return json.Marshal(out)
}

func (l *StepList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	steps := make(StepList, 0, len(raws))
	for _, raw := range raws {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return err
		}
		step, err := decodeStep(head.Type, raw)
		if err != nil {
			return err
		}
		steps = append(steps, step)
	}
	*l = steps
	return nil
}

func decodeStep(tag string, raw json.RawMessage) (EffectStep, error) {
	unmarshal := func(v EffectStep) (EffectStep, error) {
		if err := json.Unmarshal(raw, v); err != nil {
			return nil, fmt.Errorf("decode %q step: %w", tag, err)
		}
		return v, nil
	}
	switch tag {
	case "hp":
		s, err := unmarshal(&HPDelta{})
		if err != nil {
			return nil, err
		}
		return *s.(*HPDelta), nil
	case "mp":
		s, err := unmarshal(&MPDelta{})
		if err != nil {
			return nil, err
		}
		return *s.(*MPDelta), nil
	case "ap":
		s, err := unmarshal(&APDelta{})
		if err != nil {
			return nil, err
		}
		return *s.(*APDelta), nil
	case "pos":
		s, err := unmarshal(&PosChange{})
		if err != nil {
			return nil, err
		}
		return *s.(*PosChange), nil
	case "status-add":
		s, err := unmarshal(&StatusAdd{})
		if err != nil {
			return nil, err
		}
		return *s.(*StatusAdd), nil
	case "status-rem":
		s, err := unmarshal(&StatusRemove{})
		if err != nil {
			return nil, err
		}
		return *s.(*StatusRemove), nil
	case "unit-dead":
		s, err := unmarshal(&UnitDead{})
		if err != nil {
			return nil, err
		}
		return *s.(*UnitDead), nil
	default:
		return UnknownStep{Tag: tag, Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}
