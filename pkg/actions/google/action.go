// Package google implements the Gmail Send, Drive Upload, and Sheets
// Append action nodes. Results are written back into the workflow
// variables for downstream nodes; a disabled upstream API is logged
// distinctly from generic provider failures.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"

	"github.com/voxline/voxline/pkg/models"
	"github.com/voxline/voxline/pkg/protocol"
	"github.com/voxline/voxline/pkg/variables"
)

type Config struct {
	// Gmail Send
	To      string `mapstructure:"to"`
	Subject string `mapstructure:"subject"`
	Body    string `mapstructure:"body"`
	IsHTML  bool   `mapstructure:"isHtml"`

	// Drive Upload
	FileName string `mapstructure:"fileName"`
	MimeType string `mapstructure:"mimeType"`
	Content  string `mapstructure:"content"`

	// Sheets Append
	SpreadsheetID string `mapstructure:"spreadsheetId"`
	Range         string `mapstructure:"range"`
	Values        []any  `mapstructure:"values"`
}

type Action struct {
	label  string
	config Config
	collab *protocol.Collaborators
}

func (a *Action) Execute(ctx context.Context, ectx *models.ExecutionContext, logger *slog.Logger) error {
	switch a.label {
	case models.ActionGmailSend:
		a.gmailSend(ctx, ectx, logger)
	case models.ActionDriveUpload:
		a.driveUpload(ctx, ectx, logger)
	case models.ActionSheetsAppend:
		a.sheetsAppend(ctx, ectx, logger)
	}

	return nil
}

func (a *Action) gmailSend(ctx context.Context, ectx *models.ExecutionContext, logger *slog.Logger) {
	messageID, err := a.collab.Mail.SendMessage(ctx, ectx.TenantID, protocol.Email{
		To:      a.config.To,
		Subject: a.config.Subject,
		Body:    a.config.Body,
		IsHTML:  a.config.IsHTML,
	})
	if err != nil {
		a.record(ectx, logger, "gmailError", "gmail send failed", err)

		return
	}

	variables.Set("variables.workflow.gmailMessageId", messageID, ectx)
}

func (a *Action) driveUpload(ctx context.Context, ectx *models.ExecutionContext, logger *slog.Logger) {
	file, err := a.collab.Drive.UploadFile(ctx, ectx.TenantID, a.config.FileName, a.config.MimeType, []byte(a.config.Content))
	if err != nil {
		a.record(ectx, logger, "driveError", "drive upload failed", err)

		return
	}

	variables.Set("variables.workflow.driveFileId", file.ID, ectx)
	variables.Set("variables.workflow.driveFileLink", file.Link, ectx)
}

func (a *Action) sheetsAppend(ctx context.Context, ectx *models.ExecutionContext, logger *slog.Logger) {
	err := a.collab.Sheets.AppendRow(ctx, ectx.TenantID, a.config.SpreadsheetID, a.config.Range, a.config.Values)
	if err != nil {
		a.record(ectx, logger, "sheetsError", "sheets append failed", err)

		return
	}

	variables.Set("variables.workflow.sheetsAppended", true, ectx)
}

func (a *Action) record(ectx *models.ExecutionContext, logger *slog.Logger, key, msg string, err error) {
	if errors.Is(err, protocol.ErrAPIDisabled) {
		logger.Error(msg+": the upstream API is disabled for this project; enable it in the cloud console", "error", err)
	} else {
		logger.Error(msg, "error", err)
	}

	variables.Set("variables.workflow."+key, err.Error(), ectx)
}

type Factory struct {
	label  string
	collab *protocol.Collaborators
}

// NewFactory serves one of the Google action labels.
func NewFactory(label string, collab *protocol.Collaborators) *Factory {
	return &Factory{label: label, collab: collab}
}

func (f *Factory) Label() string { return f.label }

func (f *Factory) Schema() map[string]any {
	return map[string]any{"type": "object"}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	var cfg Config
	if err := mapstructure.Decode(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s config: %w", f.label, err)
	}

	return &Action{label: f.label, config: cfg, collab: f.collab}, nil
}
