package data

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/studyshare/studyshare-backend/internal/pkg/database"
	apperrors "github.com/studyshare/studyshare-backend/internal/pkg/errors"
	"github.com/studyshare/studyshare-backend/internal/resource/biz"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResourcePO is the database model for one shared resource
type ResourcePO struct {
	ID          string `gorm:"type:uuid;primarykey"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null;default:''"`
	Subject     string `gorm:"size:255;not null"`
	Category    string `gorm:"size:50;not null;default:'notes'"`

	FileURL   string `gorm:"size:1024;not null"`
	FileName  string `gorm:"size:512;not null"`
	FileType  string `gorm:"size:255;not null"`
	FileSize  int64  `gorm:"not null;default:0"`
	StorageID string `gorm:"size:512"`

	UploaderID   string `gorm:"size:128;not null;index:idx_resources_uploader_id"`
	UploaderName string `gorm:"size:255;not null"`

	DownloadCount int64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_resources_created_at,sort:desc"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ResourcePO) TableName() string {
	return "resources"
}

type ResourceRepo struct {
	db *database.DB
}

// NewResourceRepo creates the metadata store backed by PostgreSQL
func NewResourceRepo(db *database.DB) biz.ResourceRepo {
	return &ResourceRepo{db: db}
}

func (r *ResourceRepo) Create(ctx context.Context, res *biz.Resource) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}

	po := toPO(res)
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return err
	}

	res.CreatedAt = po.CreatedAt
	res.UpdatedAt = po.UpdatedAt
	return nil
}

func (r *ResourceRepo) GetByID(ctx context.Context, id string) (*biz.Resource, error) {
	var po ResourcePO
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error
	if err != nil {
		if database.IsRecordNotFound(err) {
			return nil, apperrors.New(apperrors.ErrResourceNotFound)
		}
		return nil, err
	}
	return toDomain(&po), nil
}

func (r *ResourceRepo) List(ctx context.Context) ([]*biz.Resource, error) {
	var pos []ResourcePO
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(pos), nil
}

func (r *ResourceRepo) ListByUploader(ctx context.Context, uploaderID string) ([]*biz.Resource, error) {
	var pos []ResourcePO
	err := r.db.WithContext(ctx).
		Where("uploader_id = ?", uploaderID).
		Order("created_at DESC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(pos), nil
}

// IncrementDownloadCount bumps the counter in a single UPDATE so concurrent
// downloads never lose an increment. RETURNING carries the fresh row back.
func (r *ResourceRepo) IncrementDownloadCount(ctx context.Context, id string) (*biz.Resource, error) {
	var po ResourcePO
	result := r.db.WithContext(ctx).
		Model(&po).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.New(apperrors.ErrResourceNotFound)
	}
	return toDomain(&po), nil
}

func (r *ResourceRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ResourcePO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrResourceNotFound)
	}
	return nil
}

func toPO(res *biz.Resource) *ResourcePO {
	return &ResourcePO{
		ID:            res.ID,
		Title:         res.Title,
		Description:   res.Description,
		Subject:       res.Subject,
		Category:      string(res.Category),
		FileURL:       res.FileURL,
		FileName:      res.FileName,
		FileType:      res.FileType,
		FileSize:      res.FileSize,
		StorageID:     res.StorageID,
		UploaderID:    res.UploaderID,
		UploaderName:  res.UploaderName,
		DownloadCount: res.DownloadCount,
	}
}

func toDomain(po *ResourcePO) *biz.Resource {
	return &biz.Resource{
		ID:            po.ID,
		Title:         po.Title,
		Description:   po.Description,
		Subject:       po.Subject,
		Category:      biz.Category(po.Category),
		FileURL:       po.FileURL,
		FileName:      po.FileName,
		FileType:      po.FileType,
		FileSize:      po.FileSize,
		StorageID:     po.StorageID,
		UploaderID:    po.UploaderID,
		UploaderName:  po.UploaderName,
		DownloadCount: po.DownloadCount,
		CreatedAt:     po.CreatedAt,
		UpdatedAt:     po.UpdatedAt,
	}
}

func toDomainSlice(pos []ResourcePO) []*biz.Resource {
	out := make([]*biz.Resource, len(pos))
	for i := range pos {
		out[i] = toDomain(&pos[i])
	}
	return out
}
