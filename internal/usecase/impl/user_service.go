// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "userhub/internal/delivery/context"
	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/repository"
	"userhub/internal/domain/service"
	"userhub/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface. It holds no per-request
// state; the store is the single source of truth for every operation.
type userService struct {
	userRepo repository.UserRepository
	hasher   service.PasswordHasher
	validate *validator.Validate
	logger   *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Hasher   service.PasswordHasher
	Logger   *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo: params.UserRepo,
		hasher:   params.Hasher,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create validates the input, runs the advisory uniqueness check, hashes the
// password and persists the new user. The store's unique index on email backs
// the pre-check against concurrent identical-email creates.
func (srv *userService) Create(ctx context.Context, input *usecase.CreateUserInput) (*usecase.UserOutput, error) {
	if err := srv.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	existing, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to check email uniqueness")
	}
	if existing != nil {
		srv.log(ctx).Warn("Create rejected, email already registered", slog.String("email", input.Email))

		return nil, errors.WithStack(domainerrors.ErrEmailAlreadyRegistered)
	}

	digest, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to hash password")
	}

	user := &entity.User{
		Name:           input.Name,
		Email:          input.Email,
		PasswordDigest: digest,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		// The pre-check is advisory only: a concurrent create may have won
		// the race, surfacing here as a unique index rejection.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, errors.WithStack(domainerrors.ErrEmailAlreadyRegistered)
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	srv.log(ctx).Info("User created", slog.String("userID", user.ID.String()))

	return toUserOutput(user), nil
}

// Get returns the user with the given identifier.
func (srv *userService) Get(ctx context.Context, id string) (*usecase.UserOutput, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.WithStack(domainerrors.ErrUserNotFound)
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user")
	}

	return toUserOutput(user), nil
}

// Update applies a partial update: only supplied fields are validated and
// persisted, absent fields are left untouched.
func (srv *userService) Update(ctx context.Context, id string, input *usecase.UpdateUserInput) (*usecase.UserOutput, error) {
	userID, err := parseUserID(id)
	if err != nil {
		return nil, err
	}

	current, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.WithStack(domainerrors.ErrUserNotFound)
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find user")
	}

	if input == nil || input.IsEmpty() {
		return nil, errors.WithStack(domainerrors.ErrNothingToUpdate)
	}

	if err := srv.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	patch := repository.UserPatch{
		Name:  input.Name,
		Email: input.Email,
	}

	if input.Email != nil && *input.Email != current.Email {
		if err := srv.checkEmailAvailable(ctx, *input.Email, userID); err != nil {
			return nil, err
		}
	}

	if input.Password != nil {
		digest, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			return nil, domainerrors.NewDatabaseExecuteError(err, "failed to hash password")
		}
		patch.PasswordDigest = &digest
	}

	if err := srv.userRepo.UpdateFields(ctx, userID, patch); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, errors.WithStack(domainerrors.ErrEmailAlreadyRegistered)
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, errors.WithStack(domainerrors.ErrUserNotFound)
		default:
			return nil, domainerrors.NewDatabaseExecuteError(err, "failed to update user")
		}
	}

	// Read back through the store rather than patching the in-memory copy.
	updated, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.WithStack(domainerrors.ErrUserNotFound)
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to reload user")
	}

	srv.log(ctx).Info("User updated", slog.String("userID", userID.String()))

	return toUserOutput(updated), nil
}

// Delete permanently removes the user with the given identifier.
func (srv *userService) Delete(ctx context.Context, id string) error {
	userID, err := parseUserID(id)
	if err != nil {
		return err
	}

	if err := srv.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.WithStack(domainerrors.ErrUserNotFound)
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete user")
	}

	srv.log(ctx).Info("User deleted", slog.String("userID", userID.String()))

	return nil
}

// checkEmailAvailable runs the advisory uniqueness check for an email change,
// excluding the record being updated so a user keeping their own email never
// self-conflicts.
func (srv *userService) checkEmailAvailable(ctx context.Context, email string, selfID uuid.UUID) error {
	holder, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to check email uniqueness")
	}

	if holder.ID != selfID {
		return errors.WithStack(domainerrors.ErrEmailAlreadyRegistered)
	}

	return nil
}

// parseUserID is the structural identifier check. It never touches the store;
// a malformed identifier fails before any query runs.
func parseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.WithStack(domainerrors.ErrInvalidUserID)
	}

	return id, nil
}

// validationError converts validator failures into the domain validation
// error, keeping the offending fields in the details.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return domainerrors.ErrValidationFailed.WithDetails(verrs.Error())
	}

	return domainerrors.ErrValidationFailed.WithDetails(err.Error())
}

func toUserOutput(user *entity.User) *usecase.UserOutput {
	return &usecase.UserOutput{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	}
}
