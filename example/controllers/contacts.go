package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrymomot/colony"
	"github.com/dmitrymomot/colony/pkg/db"
)

const contactsTable = "contacts"

// Contacts manages the contact list.
type Contacts struct{}

// NewContacts returns the contacts controller factory.
func NewContacts() colony.ControllerFactory {
	return colony.Static(&Contacts{})
}

func (h *Contacts) Methods() colony.Methods {
	return colony.Methods{
		"main":   h.list,
		"view":   h.view,
		"new":    h.form,
		"save":   h.save,
		"delete": h.delete,
	}
}

// Setup rejects state-changing methods outside POST.
func (h *Contacts) Setup(c *colony.Context) error {
	switch c.Route().Method {
	case "save", "delete":
		if c.Request().Method != http.MethodPost {
			return colony.NewHTTPError(http.StatusMethodNotAllowed, "use the form to change contacts")
		}
	}
	return nil
}

func (h *Contacts) list(c *colony.Context, _ colony.Extra) error {
	rows, err := c.DB().Query(c.Context(), "SELECT id, name, email FROM contacts ORDER BY name")
	if err != nil {
		return fmt.Errorf("list contacts: %w", err)
	}
	c.Set("contacts", rows)
	return nil
}

func (h *Contacts) view(c *colony.Context, extra colony.Extra) error {
	id, err := extra.Int()
	if err != nil {
		return colony.ErrNotFound("contact not found")
	}

	row, err := c.DB().Get(c.Context(), contactsTable, db.Where{"id": id})
	if errors.Is(err, db.ErrNoRows) {
		return colony.ErrNotFound("contact not found")
	}
	if err != nil {
		return fmt.Errorf("get contact %d: %w", id, err)
	}
	c.Set("contact", row)
	return nil
}

// form shows the new contact form with the values of a rejected submission.
func (h *Contacts) form(c *colony.Context, _ colony.Extra) error {
	old := map[string]any{}
	if v, ok := c.Session().GetValue("old_contact"); ok {
		if m, ok := v.(map[string]any); ok {
			old = m
		}
		c.Session().DeleteValue("old_contact")
	}
	c.Set("old", old)
	return nil
}

func (h *Contacts) save(c *colony.Context, _ colony.Extra) error {
	name := strings.TrimSpace(c.Input().Raw("contact", "name"))
	email := strings.TrimSpace(c.Input().Raw("contact", "email"))

	if name == "" {
		c.Errors().Add("name", "Name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		c.Errors().Add("email", "Email address is invalid")
	}
	if c.Errors().Len() > 0 {
		c.Session().SetValue("old_contact", map[string]any{"name": name, "email": email})
	}
	if err := c.Errors().Trap("/contacts/new"); err != nil {
		return err
	}

	_, err := c.DB().Insert(c.Context(), contactsTable, db.Row{
		"name":       name,
		"email":      email,
		"created_at": time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}

	notify(c, name, email)
	return c.Redirect("/contacts")
}

func (h *Contacts) delete(c *colony.Context, extra colony.Extra) error {
	id, err := extra.Int()
	if err != nil {
		return colony.ErrBadRequest("invalid contact id")
	}
	n, err := c.DB().Exec(c.Context(), "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	if n == 0 {
		return colony.ErrNotFound("contact not found")
	}
	return c.Redirect("/contacts")
}

// notify mails the address under app.notify, when set. Failures are logged;
// the contact is already stored.
func notify(c *colony.Context, name, email string) {
	to := c.Config().GetString("notify", "")
	if to == "" {
		return
	}
	err := c.Mailer().SendRaw(c.Context(), &colony.Email{
		To:      []string{to},
		Subject: "New contact: " + name,
		Text:    fmt.Sprintf("%s <%s> was added to the contact list.", name, email),
	})
	if err != nil {
		c.Logger().WarnContext(c.Context(), "contact notification failed", slog.Any("error", err))
	}
}
