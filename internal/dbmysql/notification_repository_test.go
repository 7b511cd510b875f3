package dbmysql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"mealmate/internal/common"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
	}

	return gormDB, mock, cleanup
}

func TestNotificationRepository_Create(t *testing.T) {
	tests := []struct {
		name        string
		mockSetup   func(sqlmock.Sqlmock)
		expectError bool
	}{
		{
			name: "successful create",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `notifications`")).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			expectError: false,
		},
		{
			name: "database error",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `notifications`")).
					WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := setupTestDB(t)
			defer cleanup()

			tt.mockSetup(mock)

			repo := NewNotificationRepository(db)
			err := repo.Create(context.Background(), &Notification{
				ID:       "notif-1",
				UserID:   "user-1",
				Type:     common.PantryType,
				Title:    "Pantry Alert",
				Message:  "milk expires today!",
				Priority: common.PriorityUrgent,
				Payload: common.Payload{
					Pantry: &common.PantryPayload{ItemName: "milk", DaysLeft: 0},
				},
				CreatedAt: time.Now().UTC(),
			})

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationRepository_ByOwner(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "type", "title", "message", "priority", "payload", "is_read", "read_at", "created_at",
	}).
		AddRow("notif-2", "user-1", "pantry", "Pantry Alert", "milk expires today!", "urgent",
			[]byte(`{"pantry":{"itemName":"milk","daysLeft":0}}`), false, nil, time.Now()).
		AddRow("notif-1", "user-1", "system", "Welcome", "Welcome to MealMate", "low",
			[]byte(`{}`), true, time.Now(), time.Now().Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `notifications` WHERE user_id = ?")).
		WillReturnRows(rows)

	repo := NewNotificationRepository(db)
	notifications, err := repo.ByOwner(context.Background(), "user-1", 20, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	assert.Equal(t, "notif-2", notifications[0].ID)
	assert.Equal(t, common.PriorityUrgent, notifications[0].Priority)
	require.NotNil(t, notifications[0].Payload.Pantry)
	assert.Equal(t, "milk", notifications[0].Payload.Pantry.ItemName)
	assert.True(t, notifications[1].IsRead)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	tests := []struct {
		name         string
		userID       string
		ids          []string
		mockSetup    func(sqlmock.Sqlmock)
		expected     int64
		expectAuthz  bool
		expectError  bool
	}{
		{
			name:   "marks owned unread rows",
			userID: "user-1",
			ids:    []string{"notif-1", "notif-2"},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `notifications` WHERE id IN (?,?) AND user_id <> ?")).
					WithArgs("notif-1", "notif-2", "user-1").
					WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("UPDATE `notifications` SET")).
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectCommit()
			},
			expected: 2,
		},
		{
			name:   "already-read rows are a no-op",
			userID: "user-1",
			ids:    []string{"notif-1"},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `notifications` WHERE id IN (?) AND user_id <> ?")).
					WithArgs("notif-1", "user-1").
					WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("UPDATE `notifications` SET")).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectCommit()
			},
			expected: 0,
		},
		{
			name:   "foreign id fails the whole call",
			userID: "user-2",
			ids:    []string{"notif-1"},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `notifications` WHERE id IN (?) AND user_id <> ?")).
					WithArgs("notif-1", "user-2").
					WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
			},
			expectAuthz: true,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := setupTestDB(t)
			defer cleanup()

			tt.mockSetup(mock)

			repo := NewNotificationRepository(db)
			affected, err := repo.MarkRead(context.Background(), tt.userID, tt.ids)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, tt.expectAuthz, common.IsAuthorization(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, affected)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationRepository_MarkRead_EmptyIDs(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewNotificationRepository(db)
	affected, err := repo.MarkRead(context.Background(), "user-1", nil)

	assert.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `notifications` SET")).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	repo := NewNotificationRepository(db)
	affected, err := repo.MarkAllRead(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_Delete(t *testing.T) {
	tests := []struct {
		name        string
		userID      string
		ids         []string
		mockSetup   func(sqlmock.Sqlmock)
		expected    int64
		expectAuthz bool
	}{
		{
			name:   "deletes owned rows",
			userID: "user-1",
			ids:    []string{"notif-1"},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `notifications` WHERE id IN (?) AND user_id <> ?")).
					WithArgs("notif-1", "user-1").
					WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `notifications` WHERE id IN (?) AND user_id = ?")).
					WithArgs("notif-1", "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expected: 1,
		},
		{
			name:   "foreign id is forbidden",
			userID: "user-2",
			ids:    []string{"notif-1"},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `notifications` WHERE id IN (?) AND user_id <> ?")).
					WithArgs("notif-1", "user-2").
					WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
			},
			expectAuthz: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := setupTestDB(t)
			defer cleanup()

			tt.mockSetup(mock)

			repo := NewNotificationRepository(db)
			affected, err := repo.Delete(context.Background(), tt.userID, tt.ids)

			if tt.expectAuthz {
				assert.True(t, common.IsAuthorization(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, affected)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationRepository_DeleteAll(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `notifications` WHERE user_id = ?")).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	repo := NewNotificationRepository(db)
	affected, err := repo.DeleteAll(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(5), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_UnreadCount(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `notifications` WHERE user_id = ? AND is_read = ?")).
		WithArgs("user-1", false).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(4))

	repo := NewNotificationRepository(db)
	count, err := repo.UnreadCount(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
