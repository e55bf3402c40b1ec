package style

import (
	"encoding/json"
)

// Extra holds object members a descriptor type does not model. They are kept
// on decode and written back on encode so stored styles survive a round trip.
type Extra map[string]json.RawMessage

// splitExtra returns the members of the JSON object data whose keys are not known.
func splitExtra(data []byte, known ...string) (Extra, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// mergeExtra adds extra to the encoded object data. Modelled members win.
func mergeExtra(data []byte, extra Extra) ([]byte, error) {
	if len(extra) == 0 {
		return data, nil
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}
	return json.Marshal(all)
}

func (e Extra) clone() Extra {
	if e == nil {
		return nil
	}
	c := make(Extra, len(e))
	for k, v := range e {
		c[k] = append(json.RawMessage(nil), v...)
	}
	return c
}

type fieldJSON Field

func (f Field) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(fieldJSON(f))
	if err != nil {
		return nil, err
	}
	return mergeExtra(data, f.Extra)
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var v fieldJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, "name", "label")
	if err != nil {
		return err
	}
	v.Extra = extra
	*f = Field(v)
	return nil
}

type optionsJSON Options

func (o Options) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(optionsJSON(o))
	if err != nil {
		return nil, err
	}
	return mergeExtra(data, o.Extra)
}

func (o *Options) UnmarshalJSON(data []byte) error {
	var v optionsJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, "color", "size", "field", "minSize", "maxSize")
	if err != nil {
		return err
	}
	v.Extra = extra
	*o = Options(v)
	return nil
}

type propertySpecJSON PropertySpec

func (p PropertySpec) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(propertySpecJSON(p))
	if err != nil {
		return nil, err
	}
	return mergeExtra(data, p.Extra)
}

func (p *PropertySpec) UnmarshalJSON(data []byte) error {
	var v propertySpecJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, "type", "options")
	if err != nil {
		return err
	}
	v.Extra = extra
	*p = PropertySpec(v)
	return nil
}

type propertiesJSON Properties

func (p Properties) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(propertiesJSON(p))
	if err != nil {
		return nil, err
	}
	return mergeExtra(data, p.Extra)
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	var v propertiesJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data,
		string(FillColor), string(LineColor), string(LineWidth), string(IconSize), string(AlphaValue))
	if err != nil {
		return err
	}
	v.Extra = extra
	*p = Properties(v)
	return nil
}

type descriptorJSON Descriptor

func (d Descriptor) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(descriptorJSON(d))
	if err != nil {
		return nil, err
	}
	return mergeExtra(data, d.Extra)
}

func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var v descriptorJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, "type", "properties")
	if err != nil {
		return err
	}
	v.Extra = extra
	*d = Descriptor(v)
	return nil
}
