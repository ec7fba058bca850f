// Package notify raises desktop notifications.
package notify

import (
	"github.com/gen2brain/beeep"

	"minutemic/internal/domain"
)

const appName = "minutemic"

// Desktop shows notices through the OS notification center. Warnings use the
// alert style.
type Desktop struct {
	notify func(title, message string) error
	alert  func(title, message string) error
}

func NewDesktop() *Desktop {
	return &Desktop{
		notify: func(title, message string) error { return beeep.Notify(title, message, "") },
		alert:  func(title, message string) error { return beeep.Alert(title, message, "") },
	}
}

func (d *Desktop) Notify(notice domain.Notice) error {
	title := appName
	if notice.Title != "" {
		title = appName + ": " + notice.Title
	}
	if notice.Level == domain.NoticeWarning {
		return d.alert(title, notice.Message)
	}
	return d.notify(title, notice.Message)
}
