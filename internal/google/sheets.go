package google

import (
	"context"
	"fmt"
	"os"
	"strings"

	"faresbot/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// LeadsSheet дублирует завершенных лидов в Google-таблицу оператора.
type LeadsSheet struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewLeadsSheet(credentialsFile, spreadsheetID string) (*LeadsSheet, error) {
	ctx := context.Background()

	// Читаем файл учетных данных сервисного аккаунта
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &LeadsSheet{
		service:       srv,
		spreadsheetID: spreadsheetID,
	}, nil
}

// TestConnection проверяет доступ к таблице
func (s *LeadsSheet) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "Leads!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// AppendLead дописывает лида новой строкой в лист Leads.
func (s *LeadsSheet) AppendLead(ctx context.Context, lead *models.Lead) error {
	valueRange := &sheets.ValueRange{Values: [][]interface{}{leadRowValues(lead)}}
	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, "Leads!A1", valueRange).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("unable to append lead: %v", err)
	}
	return nil
}

func leadRowValues(lead *models.Lead) []interface{} {
	return []interface{}{
		lead.ChatID,
		lead.Name,
		lead.Goal,
		lead.Fatigue,
		lead.Activity,
		lead.Digestion,
		lead.Beauty,
		strings.Join(lead.Focus, ", "),
		strings.Join(lead.Format, ", "),
		lead.ContactType,
		lead.ContactData,
		lead.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
