package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JonnyWalker81/foodmood/backend/internal/models"
)

// NewPostgresDB opens a gorm connection for the postgres store driver.
func NewPostgresDB(dsn string, debug bool) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

type foodLogRow struct {
	ID          string         `gorm:"type:uuid;primaryKey"`
	UserID      string         `gorm:"type:uuid;index"`
	FoodName    string         `gorm:"size:100;not null"`
	FoodID      *string        `gorm:"size:100"`
	MealType    *string        `gorm:"size:20"`
	Moods       pq.StringArray `gorm:"type:text[];not null"`
	MealTime    time.Time      `gorm:"index;not null"`
	PortionSize *string        `gorm:"size:50"`
	Notes       *string        `gorm:"size:500"`
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (foodLogRow) TableName() string { return foodLogsTable }

func newFoodLogRow(log *models.FoodLog) foodLogRow {
	row := foodLogRow{
		ID:          log.ID,
		UserID:      log.UserID,
		FoodName:    log.FoodName,
		FoodID:      log.FoodID,
		Moods:       moodArray(log.Moods),
		MealTime:    log.MealTime.UTC(),
		PortionSize: log.PortionSize,
		Notes:       log.Notes,
		ImageURL:    log.ImageURL,
	}
	if log.MealType != nil {
		mt := string(*log.MealType)
		row.MealType = &mt
	}
	return row
}

func (r foodLogRow) model() models.FoodLog {
	log := models.FoodLog{
		ID:          r.ID,
		UserID:      r.UserID,
		FoodName:    r.FoodName,
		FoodID:      r.FoodID,
		Moods:       make([]models.Mood, len(r.Moods)),
		MealTime:    r.MealTime,
		PortionSize: r.PortionSize,
		Notes:       r.Notes,
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for i, m := range r.Moods {
		log.Moods[i] = models.Mood(m)
	}
	if r.MealType != nil {
		mt := models.MealType(*r.MealType)
		log.MealType = &mt
	}
	return log
}

type insightRow struct {
	ID          string         `gorm:"type:uuid;primaryKey"`
	UserID      string         `gorm:"type:uuid;index"`
	InsightType string         `gorm:"size:20;not null"`
	Title       string         `gorm:"not null"`
	Description string         `gorm:"not null"`
	Data        datatypes.JSON `gorm:"type:jsonb"`
	PeriodStart time.Time
	PeriodEnd   time.Time
	IsRead      bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
}

func (insightRow) TableName() string { return insightsTable }

func (r insightRow) model() models.Insight {
	return models.Insight{
		ID:          r.ID,
		UserID:      r.UserID,
		InsightType: models.InsightType(r.InsightType),
		Title:       r.Title,
		Description: r.Description,
		Data:        []byte(r.Data),
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		IsRead:      r.IsRead,
		CreatedAt:   r.CreatedAt,
	}
}

func moodArray(moods []models.Mood) pq.StringArray {
	out := make(pq.StringArray, len(moods))
	for i, m := range moods {
		out[i] = string(m)
	}
	return out
}

// dbError maps gorm and driver errors onto the repository sentinels.
// Connection-class failures become ErrUnavailable; SQL errors do not.
func dbError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to %s: %w", op, ErrNotFound)
	}
	if isConnectionError(err) {
		return fmt.Errorf("failed to %s: %w: %w", op, ErrUnavailable, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func isConnectionError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 is connection exceptions, 57P is operator intervention.
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P")
	}
	return errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) || pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

type postgresFoodLogRepository struct {
	db *gorm.DB
}

// NewPostgresFoodLogRepository creates a food log repository over gorm
func NewPostgresFoodLogRepository(db *gorm.DB) FoodLogRepository {
	return &postgresFoodLogRepository{db: db}
}

func (r *postgresFoodLogRepository) Create(ctx context.Context, log *models.FoodLog) (*models.FoodLog, error) {
	row := newFoodLogRow(log)
	if row.ID == "" {
		id, err := newID()
		if err != nil {
			return nil, err
		}
		row.ID = id
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, dbError("create food log", err)
	}
	created := row.model()
	return &created, nil
}

func (r *postgresFoodLogRepository) GetByID(ctx context.Context, userID, id string) (*models.FoodLog, error) {
	var row foodLogRow
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if err != nil {
		return nil, dbError("get food log", err)
	}
	log := row.model()
	return &log, nil
}

func (r *postgresFoodLogRepository) List(ctx context.Context, userID string, filter models.FoodLogFilter) ([]models.FoodLog, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.StartDate != nil {
		query = query.Where("meal_time >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query = query.Where("meal_time <= ?", filter.EndDate.UTC())
	}
	if len(filter.Moods) > 0 {
		query = query.Where("moods && ?", moodArray(filter.Moods))
	}
	if filter.FoodName != "" {
		query = query.Where("food_name ILIKE ?", "%"+escapeLike(filter.FoodName)+"%")
	}
	query = query.Order("meal_time DESC").Limit(clampLimit(filter.Limit)).Offset(filter.Offset)

	var rows []foodLogRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, dbError("list food logs", err)
	}
	return foodLogModels(rows), nil
}

func (r *postgresFoodLogRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.FoodLog, error) {
	var rows []foodLogRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND meal_time >= ? AND meal_time <= ?", userID, start.UTC(), end.UTC()).
		Order("meal_time DESC").
		Find(&rows).Error
	if err != nil {
		return nil, dbError("fetch food logs", err)
	}
	return foodLogModels(rows), nil
}

func (r *postgresFoodLogRepository) Update(ctx context.Context, userID, id string, columns map[string]interface{}) (*models.FoodLog, error) {
	updates := make(map[string]interface{}, len(columns)+1)
	for k, v := range columns {
		switch val := v.(type) {
		case []models.Mood:
			v = moodArray(val)
		case models.MealType:
			v = string(val)
		}
		updates[k] = v
	}
	updates["updated_at"] = time.Now().UTC()

	var rows []foodLogRow
	result := r.db.WithContext(ctx).Model(&rows).
		Clauses(clause.Returning{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, dbError("update food log", result.Error)
	}
	if result.RowsAffected == 0 || len(rows) == 0 {
		return nil, fmt.Errorf("failed to update food log: %w", ErrNotFound)
	}
	log := rows[0].model()
	return &log, nil
}

func (r *postgresFoodLogRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&foodLogRow{})
	if result.Error != nil {
		return dbError("delete food log", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete food log: %w", ErrNotFound)
	}
	return nil
}

func foodLogModels(rows []foodLogRow) []models.FoodLog {
	out := make([]models.FoodLog, len(rows))
	for i, row := range rows {
		out[i] = row.model()
	}
	return out
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

type postgresInsightRepository struct {
	db *gorm.DB
}

// NewPostgresInsightRepository creates an insight repository over gorm
func NewPostgresInsightRepository(db *gorm.DB) InsightRepository {
	return &postgresInsightRepository{db: db}
}

func (r *postgresInsightRepository) Create(ctx context.Context, insight *models.Insight) (*models.Insight, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	row := insightRow{
		ID:          id,
		UserID:      insight.UserID,
		InsightType: string(insight.InsightType),
		Title:       insight.Title,
		Description: insight.Description,
		Data:        datatypes.JSON(insight.Data),
		PeriodStart: insight.PeriodStart.UTC(),
		PeriodEnd:   insight.PeriodEnd.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, dbError("create insight", err)
	}
	created := row.model()
	return &created, nil
}

func (r *postgresInsightRepository) GetByID(ctx context.Context, userID, id string) (*models.Insight, error) {
	var row insightRow
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if err != nil {
		return nil, dbError("get insight", err)
	}
	insight := row.model()
	return &insight, nil
}

func (r *postgresInsightRepository) List(ctx context.Context, userID string, filter models.InsightFilter) ([]models.Insight, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Type != nil {
		query = query.Where("insight_type = ?", string(*filter.Type))
	}
	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", filter.EndDate.UTC())
	}
	query = query.Order("created_at DESC").Limit(clampLimit(filter.Limit)).Offset(filter.Offset)

	var rows []insightRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, dbError("list insights", err)
	}
	out := make([]models.Insight, len(rows))
	for i, row := range rows {
		out[i] = row.model()
	}
	return out, nil
}

func (r *postgresInsightRepository) MarkRead(ctx context.Context, userID, id string) (*models.Insight, error) {
	var rows []insightRow
	result := r.db.WithContext(ctx).Model(&rows).
		Clauses(clause.Returning{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return nil, dbError("mark insight read", result.Error)
	}
	if result.RowsAffected == 0 || len(rows) == 0 {
		return nil, fmt.Errorf("failed to mark insight read: %w", ErrNotFound)
	}
	insight := rows[0].model()
	return &insight, nil
}

func (r *postgresInsightRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&insightRow{})
	if result.Error != nil {
		return dbError("delete insight", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete insight: %w", ErrNotFound)
	}
	return nil
}
