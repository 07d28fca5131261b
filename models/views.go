// ABOUTME: Typed views over dataset records
// ABOUTME: Defines Task, Person, Project, Subproject, and Contact plus record conversion
package models

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// NotificationMethods holds the per-channel notification switches.
type NotificationMethods struct {
	Discord  bool `json:"discord" mapstructure:"discord"`
	SMS      bool `json:"sms" mapstructure:"sms"`
	WhatsApp bool `json:"whatsapp" mapstructure:"whatsapp"`
}

// Notification method names.
const (
	MethodDiscord  = "discord"
	MethodSMS      = "sms"
	MethodWhatsApp = "whatsapp"
)

// Get reports whether a method is enabled.
func (m NotificationMethods) Get(method string) (bool, error) {
	switch method {
	case MethodDiscord:
		return m.Discord, nil
	case MethodSMS:
		return m.SMS, nil
	case MethodWhatsApp:
		return m.WhatsApp, nil
	}
	return false, fmt.Errorf("unknown notification method %q", method)
}

// Set toggles a method.
func (m *NotificationMethods) Set(method string, enabled bool) error {
	switch method {
	case MethodDiscord:
		m.Discord = enabled
	case MethodSMS:
		m.SMS = enabled
	case MethodWhatsApp:
		m.WhatsApp = enabled
	default:
		return fmt.Errorf("unknown notification method %q", method)
	}
	return nil
}

// TaskPerson is a by-name reference from a task to a person, with the
// task's own notification overrides.
type TaskPerson struct {
	Name    string              `json:"name" mapstructure:"name"`
	Methods NotificationMethods `json:"methods" mapstructure:"methods"`
}

type Task struct {
	ID          string       `json:"id" mapstructure:"id"`
	Text        string       `json:"text" mapstructure:"text"`
	Done        bool         `json:"done" mapstructure:"done"`
	DueDate     *string      `json:"dueDate" mapstructure:"dueDate"`
	Favorite    bool         `json:"favorite" mapstructure:"favorite"`
	Starred     bool         `json:"starred,omitempty" mapstructure:"starred"`
	People      []TaskPerson `json:"people" mapstructure:"people"`
	Description string       `json:"description,omitempty" mapstructure:"description"`
}

type Person struct {
	ID      string              `json:"id" mapstructure:"id"`
	Name    string              `json:"name" mapstructure:"name"`
	Methods NotificationMethods `json:"methods" mapstructure:"methods"`
}

type Subproject struct {
	ID             string       `json:"id" mapstructure:"id"`
	Text           string       `json:"text" mapstructure:"text"`
	Tasks          []Task       `json:"tasks" mapstructure:"tasks"`
	Collapsed      bool         `json:"collapsed" mapstructure:"collapsed"`
	IsProjectLevel bool         `json:"isProjectLevel" mapstructure:"isProjectLevel"`
	Color          string       `json:"color,omitempty" mapstructure:"color"`
	Description    string       `json:"description,omitempty" mapstructure:"description"`
	Owners         []TaskPerson `json:"owners,omitempty" mapstructure:"owners"`
}

type Project struct {
	ID          string       `json:"id" mapstructure:"id"`
	Text        string       `json:"text" mapstructure:"text"`
	Color       string       `json:"color,omitempty" mapstructure:"color"`
	Order       *int         `json:"order,omitempty" mapstructure:"order"`
	Progress    *float64     `json:"progress,omitempty" mapstructure:"progress"`
	Subprojects []Subproject `json:"subprojects" mapstructure:"subprojects"`
}

// Contact status values.
const (
	ContactStatusNone     = "none"
	ContactStatusInvited  = "invited"
	ContactStatusAccepted = "accepted"
)

type Contact struct {
	ID          string  `json:"id" mapstructure:"id"`
	Name        string  `json:"name" mapstructure:"name"`
	Login       string  `json:"login,omitempty" mapstructure:"login"`
	Status      string  `json:"status" mapstructure:"status"`
	InviteToken *string `json:"inviteToken" mapstructure:"inviteToken"`
}

// Decode fills a typed view from a record. Fields the view does not know
// are ignored.
func Decode(r Record, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]interface{}(r)); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// Encode turns a typed view into a record with JSON field names.
func Encode(v interface{}) (Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	return r, nil
}
