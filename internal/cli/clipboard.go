package cli

import (
	"context"

	"github.com/atotto/clipboard"
)

type systemClipboard struct{}

func (systemClipboard) SetText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return clipboard.WriteAll(text)
}
