package service

import (
	"bytes"
	"context"
	"fmt"

	"study_tracker/internal/middleware"
	"study_tracker/internal/model"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const historySheet = "History"

// ExportService は日次履歴を Excel (.xlsx) にする
type ExportService interface {
	// ExportHistory は GetHistory と同じ条件の行をブックにして返す。返り値はブック本体と推奨ファイル名
	ExportHistory(ctx context.Context, userID uuid.UUID, q model.HistoryQuery) (*bytes.Buffer, string, error)
}

type exportService struct {
	progress ProgressService
}

func NewExportService(progress ProgressService) ExportService {
	return &exportService{progress: progress}
}

func (s *exportService) ExportHistory(ctx context.Context, userID uuid.UUID, q model.HistoryQuery) (*bytes.Buffer, string, error) {
	logger := middleware.GetLogger(ctx)

	history, err := s.progress.GetHistory(ctx, userID, q)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return nil, "", exportError(err)
	}

	header := []interface{}{"Date", "Class", "Lectures", "DPP"}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return nil, "", exportError(err)
	}

	var totalLectures, totalDPP int
	for i, l := range history.Logs {
		row := []interface{}{l.Date, int(l.ClassLevel), l.Lectures, l.DPP}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return nil, "", exportError(err)
		}
		totalLectures += l.Lectures
		totalDPP += l.DPP
	}

	totalRow := []interface{}{"Total", "", totalLectures, totalDPP}
	cell, _ := excelize.CoordinatesToCellName(1, len(history.Logs)+2)
	if err := f.SetSheetRow(historySheet, cell, &totalRow); err != nil {
		return nil, "", exportError(err)
	}

	// ヘッダーを太字に
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(historySheet, "A1", "D1", style)
	}
	_ = f.SetColWidth(historySheet, "A", "A", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to write history workbook", "error", err)
		return nil, "", exportError(err)
	}

	filename := fmt.Sprintf("study_history_%s_%s.xlsx", history.From, history.To)
	logger.Info("History exported", "user_id", userID.String(), "rows", len(history.Logs))
	return buf, filename, nil
}

func exportError(err error) error {
	return model.NewAppError("EXPORT_FAILED", "Excelファイルの生成に失敗しました。", "", fmt.Errorf("%w: %w", model.ErrInternalServer, err))
}
