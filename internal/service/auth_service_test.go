// internal/service/auth_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"go_cyber_mentor/internal/config"
	"go_cyber_mentor/internal/model"
	"go_cyber_mentor/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestAuthService(t *testing.T) (AuthService, *gorm.DB, *config.Config) {
	t.Helper()
	db := setupTestDB(t)
	cfg := testConfig()
	cfg.App.Name = "CyberMentor"
	cfg.JWT.SecretKey = "test-secret-key"
	cfg.JWT.AccessTokenTTL = time.Hour
	svc := NewAuthService(db, repository.NewGormUserRepository(), cfg)
	return svc, db, cfg
}

func Test_authService_Register(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newTestAuthService(t)

	req := &model.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret-password",
	}

	t.Run("登録直後から有効なユーザーになる", func(t *testing.T) {
		user, err := svc.Register(ctx, req)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.UserID)
		assert.Equal(t, "Alice", user.Name)
		assert.True(t, user.IsActive)

		// パスワードは平文では保存されない
		assert.NotEqual(t, req.Password, user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)))
	})

	t.Run("同じメールアドレスは登録できない", func(t *testing.T) {
		_, err := svc.Register(ctx, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("DBには1人だけ", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func Test_authService_Login(t *testing.T) {
	ctx := context.Background()
	svc, db, cfg := newTestAuthService(t)

	registered, err := svc.Register(ctx, &model.RegisterRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	t.Run("正しい資格情報でJWTが返る", func(t *testing.T) {
		resp, err := svc.Login(ctx, &model.LoginRequest{
			Email:    "bob@example.com",
			Password: "correct-horse",
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)

		// トークンの中身を検証
		token, err := jwt.ParseWithClaims(resp.AccessToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWT.SecretKey), nil
		})
		require.NoError(t, err)
		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		require.True(t, ok)
		assert.Equal(t, registered.UserID.String(), claims.Subject)
		assert.Equal(t, cfg.App.Name, claims.Issuer)
	})

	t.Run("パスワード違いは認証エラー", func(t *testing.T) {
		_, err := svc.Login(ctx, &model.LoginRequest{
			Email:    "bob@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("存在しないユーザーも同じ認証エラー", func(t *testing.T) {
		_, err := svc.Login(ctx, &model.LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("無効化されたアカウントはログインできない", func(t *testing.T) {
		require.NoError(t, db.Model(&model.User{}).
			Where("user_id = ?", registered.UserID).
			Update("is_active", false).Error)

		_, err := svc.Login(ctx, &model.LoginRequest{
			Email:    "bob@example.com",
			Password: "correct-horse",
		})
		assert.ErrorIs(t, err, model.ErrForbidden)
	})
}

func Test_authService_GetUser(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService(t)

	registered, err := svc.Register(ctx, &model.RegisterRequest{
		Name:     "Carol",
		Email:    "carol@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("IDでユーザーを取得できる", func(t *testing.T) {
		user, err := svc.GetUser(ctx, registered.UserID)
		require.NoError(t, err)
		assert.Equal(t, "carol@example.com", user.Email)
	})

	t.Run("存在しないIDは ErrNotFound", func(t *testing.T) {
		_, err := svc.GetUser(ctx, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
