package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"assessment_builder/internal/document"
	"assessment_builder/internal/model"
	"assessment_builder/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DraftRepository struct {
	DB *gorm.DB
}

func NewDraftRepository(db *gorm.DB) *DraftRepository {
	return &DraftRepository{DB: db}
}

// Create stores a new draft row for doc; doc.ID becomes the row id.
func (r *DraftRepository) Create(ctx context.Context, teacherID uint, doc document.Assessment) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", doc.ID, err)
	}
	row := &model.AssessmentDraft{
		UUIDBase:  model.UUIDBase{ID: doc.ID},
		TeacherID: teacherID,
		Title:     doc.Title,
		Document:  datatypes.JSON(raw),
	}
	return r.DB.WithContext(ctx).Create(row).Error
}

func (r *DraftRepository) FindByID(ctx context.Context, id string) (*model.AssessmentDraft, error) {
	var row model.AssessmentDraft
	err := r.DB.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Load returns the stored document of draft id and the teacher who owns it.
func (r *DraftRepository) Load(ctx context.Context, id string) (document.Assessment, uint, error) {
	row, err := r.FindByID(ctx, id)
	if err != nil {
		return document.Assessment{}, 0, err
	}
	doc, err := document.Decode(row.Document)
	if err != nil {
		return document.Assessment{}, 0, fmt.Errorf("decode draft %s: %w", id, err)
	}
	doc.ID = row.ID
	return doc, row.TeacherID, nil
}

// Save overwrites the stored document and bumps the version.
func (r *DraftRepository) Save(ctx context.Context, doc document.Assessment) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", doc.ID, err)
	}
	res := r.DB.WithContext(ctx).Model(&model.AssessmentDraft{}).
		Where("id = ?", doc.ID).
		Updates(map[string]interface{}{
			"title":    doc.Title,
			"document": datatypes.JSON(raw),
			"version":  gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrDraftNotFound
	}
	return nil
}

func (r *DraftRepository) ListByTeacher(ctx context.Context, teacherID uint, page, limit int) ([]model.AssessmentDraft, int64, error) {
	var rows []model.AssessmentDraft
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.AssessmentDraft{}).Where("teacher_id = ?", teacherID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Omit("document").Order("updated_at desc").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *DraftRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&model.AssessmentDraft{}, "id = ?", id).Error
}
