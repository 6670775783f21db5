package posapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Responses are read leniently: integers may arrive as strings, and a
// timestamp without an offset is taken as local time.

var localTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var err error
		if s, err = strconv.Unquote(s); err != nil {
			return err
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not an integer: %s", b)
	}
	*n = flexInt(v)
	return nil
}

func (n *flexInt) ptr() *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}

type flexTime time.Time

func (t *flexTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*t = flexTime(v)
		return nil
	}
	for _, layout := range localTimeLayouts {
		if v, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			*t = flexTime(v)
			return nil
		}
	}
	return fmt.Errorf("not a timestamp: %q", s)
}

func (r *Representation) UnmarshalJSON(b []byte) error {
	type wire Representation
	aux := struct {
		*wire
		ID         flexInt  `json:"id"`
		OccurredAt flexTime `json:"occurred_at"`
		Warehouse  flexInt  `json:"warehouse"`
		User       flexInt  `json:"user"`
		ReasonID   flexInt  `json:"reason_id"`
	}{wire: (*wire)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.ID = int(aux.ID)
	r.OccurredAt = time.Time(aux.OccurredAt)
	r.Warehouse = int(aux.Warehouse)
	r.User = int(aux.User)
	r.ReasonID = int(aux.ReasonID)
	return nil
}

func (i *RepresentationItem) UnmarshalJSON(b []byte) error {
	type wire RepresentationItem
	aux := struct {
		*wire
		ID     flexInt `json:"id"`
		Artikl flexInt `json:"artikl"`
	}{wire: (*wire)(i)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	i.ID, i.Artikl = int(aux.ID), int(aux.Artikl)
	return nil
}

func (r *RepresentationReason) UnmarshalJSON(b []byte) error {
	type wire RepresentationReason
	aux := struct {
		*wire
		ID        flexInt `json:"id"`
		SortOrder flexInt `json:"sort_order"`
	}{wire: (*wire)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.ID, r.SortOrder = int(aux.ID), int(aux.SortOrder)
	return nil
}

func (c *DrinkCategory) UnmarshalJSON(b []byte) error {
	type wire DrinkCategory
	aux := struct {
		*wire
		ID        flexInt  `json:"id"`
		ParentID  *flexInt `json:"parent_id"`
		SortOrder flexInt  `json:"sort_order"`
	}{wire: (*wire)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.ID, c.SortOrder = int(aux.ID), int(aux.SortOrder)
	c.ParentID = aux.ParentID.ptr()
	return nil
}

func (a *Artikl) UnmarshalJSON(b []byte) error {
	type wire Artikl
	aux := struct {
		*wire
		RmID            flexInt  `json:"rm_id"`
		DrinkCategoryID *flexInt `json:"drink_category_id"`
	}{wire: (*wire)(a)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	a.RmID = int(aux.RmID)
	a.DrinkCategoryID = aux.DrinkCategoryID.ptr()
	return nil
}

func (w *Warehouse) UnmarshalJSON(b []byte) error {
	type wire Warehouse
	aux := struct {
		*wire
		RmID flexInt `json:"rm_id"`
	}{wire: (*wire)(w)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	w.RmID = int(aux.RmID)
	return nil
}

func (u *User) UnmarshalJSON(b []byte) error {
	type wire User
	aux := struct {
		*wire
		ID flexInt `json:"id"`
	}{wire: (*wire)(u)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	u.ID = int(aux.ID)
	return nil
}
