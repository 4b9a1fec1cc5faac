package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// jsonID accepts an id written as a JSON string or number, as data stores
// with integer keys export them.
type jsonID string

func (id *jsonID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = jsonID(s)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("id must be a string or an integer, got %s", data)
	}
	if _, err := n.Int64(); err != nil {
		return fmt.Errorf("id must be a string or an integer, got %s", data)
	}
	*id = jsonID(n.String())
	return nil
}

func idStrings(ids []jsonID) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func (r *Resource) UnmarshalJSON(data []byte) error {
	type plain Resource
	in := struct {
		ID jsonID `json:"id"`
		*plain
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.ID = string(in.ID)
	return nil
}

func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	in := struct {
		ID        jsonID   `json:"id"`
		Resources []jsonID `json:"resources,omitempty"`
		DependsOn []jsonID `json:"depends_on,omitempty"`
		*plain
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	t.ID = string(in.ID)
	t.Resources = idStrings(in.Resources)
	t.DependsOn = idStrings(in.DependsOn)
	return nil
}

func (b *Booking) UnmarshalJSON(data []byte) error {
	type plain Booking
	in := struct {
		TaskID     jsonID `json:"task_id"`
		ResourceID jsonID `json:"resource_id"`
		*plain
	}{plain: (*plain)(b)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	b.TaskID = string(in.TaskID)
	b.ResourceID = string(in.ResourceID)
	return nil
}

func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	in := struct {
		ID jsonID `json:"id"`
		*plain
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.ID = string(in.ID)
	return nil
}
