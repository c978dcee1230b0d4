package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rookgm/ecobites/internal/models"
	"github.com/rookgm/ecobites/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const userColumns = `id, name, email, password_hash, phone, role, address,
						restaurant_name, restaurant_image, cuisine,
						vehicle_type, license_plate, is_available, reward_points, created_at`

const (
	insertUserQuery = `
						INSERT INTO users (id, name, email, password_hash, phone, role, address,
							restaurant_name, restaurant_image, cuisine, vehicle_type, license_plate)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
						RETURNING created_at
`
	selectUserByIDQuery = `
						SELECT ` + userColumns + ` FROM users
						WHERE id = $1
`
	selectUserByEmailQuery = `
						SELECT ` + userColumns + ` FROM users
						WHERE email = $1
`
	selectRestaurantsQuery = `
						SELECT ` + userColumns + ` FROM users
						WHERE role = 'restaurant'
						ORDER BY restaurant_name
`
	updateUserAddressQuery = `
						UPDATE users
						SET address = $1
						WHERE id = $2
`
)

// UserRepository implements UserRepository interface
type UserRepository struct {
	db *postgres.DB
}

// NewUserRepository creates new UserRepository instance
func NewUserRepository(db *postgres.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userRow interface {
	Scan(dest ...any) error
}

func scanUser(row userRow, user *models.User) error {
	return row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone,
		&user.Role, &user.Address, &user.RestaurantName, &user.RestaurantImage,
		&user.Cuisine, &user.VehicleType, &user.LicensePlate, &user.IsAvailable,
		&user.RewardPoints, &user.CreatedAt)
}

// CreateUser inserts new user to database
func (ur *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	err := ur.db.QueryRow(ctx, insertUserQuery,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Phone, user.Role,
		user.Address, user.RestaurantName, user.RestaurantImage, user.Cuisine,
		user.VehicleType, user.LicensePlate).Scan(&user.CreatedAt)
	if err != nil {
		if errCode := ur.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return user, nil
}

// GetUserByID returns user by id
func (ur *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := models.User{}
	err := scanUser(ur.db.QueryRow(ctx, selectUserByIDQuery, id), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByEmail returns user by email
func (ur *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := models.User{}
	err := scanUser(ur.db.QueryRow(ctx, selectUserByEmailQuery, email), &user)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetRestaurants returns all restaurant users ordered by restaurant name
func (ur *UserRepository) GetRestaurants(ctx context.Context) ([]models.User, error) {
	rows, err := ur.db.Query(ctx, selectRestaurantsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}

	for rows.Next() {
		user := models.User{}
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateUserAddress persists user address with coordinates
func (ur *UserRepository) UpdateUserAddress(ctx context.Context, userID uuid.UUID, address models.Address) error {
	cmd, err := ur.db.Exec(ctx, updateUserAddressQuery, address, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
