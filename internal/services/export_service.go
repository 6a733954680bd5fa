package services

import (
	"context"
	"fmt"
	"io"

	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Tasks"

type exportColumn struct {
	header string
	width  float64
	value  func(models.Task) interface{}
}

var exportColumns = []exportColumn{
	{"Title", 40, func(t models.Task) interface{} { return t.Title }},
	{"Description", 60, func(t models.Task) interface{} { return t.Description }},
	{"Priority", 12, func(t models.Task) interface{} { return string(t.Priority) }},
	{"Due date", 14, func(t models.Task) interface{} { return t.DueDate }},
	{"Tag", 12, func(t models.Task) interface{} { return string(t.Tag) }},
	{"Status", 12, func(t models.Task) interface{} {
		if t.Completed {
			return "Completed"
		}
		return "Pending"
	}},
}

// ExportService writes a user's tasks as an xlsx workbook.
type ExportService struct {
	taskRepo repository.TaskRepository
}

func NewExportService(taskRepo repository.TaskRepository) *ExportService {
	return &ExportService{taskRepo: taskRepo}
}

// ExportTasks streams every task of userID into w.
func (s *ExportService) ExportTasks(ctx context.Context, userID uint64, w io.Writer) error {
	tasks, err := s.taskRepo.ListByUser(ctx, repository.TaskFilter{UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", exportSheetName); err != nil {
		return err
	}
	sw, err := file.NewStreamWriter(exportSheetName)
	if err != nil {
		return err
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	header := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		if err := sw.SetColWidth(i+1, i+1, col.width); err != nil {
			return err
		}
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col.header}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, task := range tasks {
		row := make([]interface{}, len(exportColumns))
		for j, col := range exportColumns {
			row[j] = col.value(task)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = file.WriteTo(w)
	return err
}
