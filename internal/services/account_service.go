package services

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"globetrotter/internal/models/db_models"
	"globetrotter/internal/models/request_models"
	"globetrotter/internal/models/response_models"
	"globetrotter/internal/repositories"
	"globetrotter/pkg/logger"
	"globetrotter/pkg/utils"
)

const (
	otpLength = 6
	otpTTL    = 5 * time.Minute

	maxBioLength = 500

	MessageOtpSent     = "OTP sent successfully"
	MessageOtpResent   = "OTP expired. A new OTP has been sent to your email."
	MessageVerified    = "Email verified successfully"
	MessageAlreadyDone = "Email already verified"
)

var (
	gmailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@gmail\.com$`)
	phonePattern  = regexp.MustCompile(`^[0-9]{10}$`)
	otpPattern    = regexp.MustCompile(`^[0-9]{6}$`)
	localePattern = regexp.MustCompile(`^[a-zA-Z]{2,3}([-_][a-zA-Z0-9]{2,8})*$`)
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	SignUp(ctx context.Context, request request_models.SignUpRequest) (*response_models.SignUpResponse, error)
	VerifyOtp(ctx context.Context, request request_models.VerifyOtpRequest) (string, error)
	Me(ctx context.Context, userID uuid.UUID) (*response_models.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, request request_models.UpdateProfileRequest) (*response_models.ProfileResponse, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	tripRepo    repositories.TripRepository
	mail        IMailService
	tokens      *utils.TokenManager
	now         func() time.Time
}

func NewAccountService(accountRepo repositories.AccountRepository, tripRepo repositories.TripRepository, mail IMailService, tokens *utils.TokenManager) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		tripRepo:    tripRepo,
		mail:        mail,
		tokens:      tokens,
		now:         time.Now,
	}
}

func validateSignUp(r request_models.SignUpRequest) error {
	v := utils.NewValidationError("Validation failed")

	name := strings.TrimSpace(r.DisplayName)
	if n := utf8.RuneCountInString(name); n < 3 || n > 50 {
		v.Add("displayName", "Display name must be between 3 and 50 characters")
	}
	if !phonePattern.MatchString(r.PhoneNo) {
		v.Add("phoneNo", "Phone number must be exactly 10 digits")
	}
	if !gmailPattern.MatchString(r.Email) {
		v.Add("email", "Only Gmail addresses are allowed")
	}
	if problem := passwordProblem(r.Password); problem != "" {
		v.Add("password", problem)
	}
	if r.ConfirmPassword != r.Password {
		v.Add("confirmPassword", "Passwords do not match")
	}
	return v.OrNil()
}

func passwordProblem(p string) string {
	if len(p) < 6 {
		return "Password must be at least 6 characters"
	}
	var lower, upper, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !(lower && upper && digit && special) {
		return "Password must contain uppercase, lowercase, number and special character"
	}
	return ""
}

func (a *AccountService) newOtp() (string, *time.Time, error) {
	otp, err := utils.GenerateOtpCode(otpLength)
	if err != nil {
		return "", nil, err
	}
	expires := a.now().Add(otpTTL).UTC()
	return otp, &expires, nil
}

func (a *AccountService) SignUp(ctx context.Context, request request_models.SignUpRequest) (*response_models.SignUpResponse, error) {
	log := logger.GetLogger()
	request.Email = strings.TrimSpace(request.Email)

	if err := validateSignUp(request); err != nil {
		return nil, err
	}

	existing, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}

	if existing != nil {
		if existing.IsVerified {
			return nil, utils.ErrEmailAlreadyExists
		}
		if existing.OtpExpiresAt != nil && existing.OtpExpiresAt.After(a.now()) {
			return nil, utils.ErrOtpPending
		}

		otp, expires, err := a.newOtp()
		if err != nil {
			return nil, err
		}
		if err := a.accountRepo.UpdateOtp(ctx, existing.ID, otp, expires); err != nil {
			return nil, errors.Join(utils.ErrDatabaseError, err)
		}
		if err := a.mail.SendOtp(existing.Email, existing.DisplayName, otp); err != nil {
			return nil, errors.Join(utils.ErrMailDelivery, err)
		}
		log.Infow("OTP resent", "user_id", existing.ID, "email", logger.MaskEmail(existing.Email))
		return &response_models.SignUpResponse{UserID: existing.ID.String(), Message: MessageOtpResent}, nil
	}

	hash, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}
	otp, expires, err := a.newOtp()
	if err != nil {
		return nil, err
	}

	account := &db_models.Account{
		DisplayName:  strings.TrimSpace(request.DisplayName),
		PhoneNo:      request.PhoneNo,
		Email:        request.Email,
		PasswordHash: hash,
		Role:         db_models.RoleUser,
		Otp:          otp,
		OtpExpiresAt: expires,
	}
	if err := a.accountRepo.Insert(ctx, account); err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}

	if err := a.mail.SendOtp(account.Email, account.DisplayName, otp); err != nil {
		if delErr := a.accountRepo.HardDelete(ctx, account.ID); delErr != nil {
			log.Errorw("Failed to remove account after mail failure", "user_id", account.ID, "error", delErr)
		}
		return nil, errors.Join(utils.ErrMailDelivery, err)
	}

	log.Infow("Account created", "user_id", account.ID, "email", logger.MaskEmail(account.Email))
	return &response_models.SignUpResponse{UserID: account.ID.String(), Message: MessageOtpSent}, nil
}

// VerifyOtp confirms the emailed code and returns a user-facing message.
func (a *AccountService) VerifyOtp(ctx context.Context, request request_models.VerifyOtpRequest) (string, error) {
	userID, err := uuid.Parse(request.UserID)
	if err != nil {
		return "", utils.NewValidationError("Validation failed").Add("userId", "Invalid user id")
	}
	if !otpPattern.MatchString(request.Otp) {
		return "", utils.NewValidationError("Validation failed").Add("otp", "OTP must be 6 digits")
	}

	account, err := a.accountRepo.FindById(ctx, userID)
	if err != nil {
		return "", errors.Join(utils.ErrDatabaseError, err)
	}
	if account == nil {
		return "", utils.ErrAccountNotFound
	}
	if account.IsVerified {
		return MessageAlreadyDone, nil
	}
	if account.Otp != request.Otp {
		return "", utils.ErrInvalidOtp
	}
	if account.OtpExpiresAt == nil || a.now().After(*account.OtpExpiresAt) {
		return "", utils.ErrOtpExpired
	}

	if err := a.accountRepo.MarkVerified(ctx, account.ID); err != nil {
		return "", errors.Join(utils.ErrDatabaseError, err)
	}

	if err := a.mail.SendWelcome(account.Email, account.DisplayName); err != nil {
		logger.GetLogger().Warnw("Welcome email not sent", "user_id", account.ID, "error", err)
	}
	return MessageVerified, nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	account, err := a.accountRepo.FindByEmail(ctx, strings.TrimSpace(request.Email))
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}
	if !account.IsVerified {
		return nil, utils.ErrAccountNotVerified
	}

	token, err := a.tokens.CreateToken(account.ID, account.Role)
	if err != nil {
		return nil, err
	}

	logger.GetLogger().Infow("User logged in", "user_id", account.ID)
	return &response_models.AccountLoginResponse{Token: token, User: toAccountResponse(account)}, nil
}

func (a *AccountService) Me(ctx context.Context, userID uuid.UUID) (*response_models.ProfileResponse, error) {
	account, err := a.accountRepo.FindById(ctx, userID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	trips, err := a.tripRepo.ListByOwnerStatuses(ctx, userID, []string{
		db_models.TripStatusDraft, db_models.TripStatusPublished, db_models.TripStatusCompleted,
	})
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	return toProfileResponse(account, trips), nil
}

func validateProfileUpdate(r request_models.UpdateProfileRequest) (map[string]interface{}, error) {
	v := utils.NewValidationError("Validation failed")
	columns := map[string]interface{}{}

	if r.DisplayName != nil {
		name := strings.TrimSpace(*r.DisplayName)
		if n := utf8.RuneCountInString(name); n < 3 || n > 50 {
			v.Add("displayName", "Display name must be between 3 and 50 characters")
		}
		columns["display_name"] = name
	}
	if r.Bio != nil {
		bio := strings.TrimSpace(*r.Bio)
		if utf8.RuneCountInString(bio) > maxBioLength {
			v.Add("bio", "Bio must be at most 500 characters")
		}
		columns["bio"] = bio
	}
	if r.PhoneNo != nil {
		if !phonePattern.MatchString(*r.PhoneNo) {
			v.Add("phoneNo", "Phone number must be exactly 10 digits")
		}
		columns["phone_no"] = *r.PhoneNo
	}
	if r.Locale != nil {
		locale := strings.TrimSpace(*r.Locale)
		if len(locale) > 16 || !localePattern.MatchString(locale) {
			v.Add("locale", "Locale must look like en or en-US")
		}
		columns["locale"] = locale
	}
	if len(r.Preferences) > 0 && string(r.Preferences) != "null" {
		var prefs map[string]interface{}
		if err := json.Unmarshal(r.Preferences, &prefs); err != nil || prefs == nil {
			v.Add("preferences", "Preferences must be a JSON object")
		}
		columns["preferences"] = datatypes.JSON(r.Preferences)
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, utils.NewValidationError("No fields to update")
	}
	return columns, nil
}

func (a *AccountService) UpdateProfile(ctx context.Context, userID uuid.UUID, request request_models.UpdateProfileRequest) (*response_models.ProfileResponse, error) {
	columns, err := validateProfileUpdate(request)
	if err != nil {
		return nil, err
	}

	account, err := a.accountRepo.FindById(ctx, userID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	if err := a.accountRepo.UpdateProfile(ctx, userID, columns); err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	logger.GetLogger().Infow("Profile updated", "user_id", userID, "fields", len(columns))
	return a.Me(ctx, userID)
}

func toProfileResponse(a *db_models.Account, trips []db_models.Trip) *response_models.ProfileResponse {
	out := &response_models.ProfileResponse{
		AccountResponse: toAccountResponse(a),
		PhoneNo:         a.PhoneNo,
		Bio:             a.Bio,
		Locale:          a.Locale,
		Preferences:     json.RawMessage(`{}`),
		PreplannedTrips: []response_models.ProfileTrip{},
		PreviousTrips:   []response_models.ProfileTrip{},
	}
	if len(a.Preferences) > 0 {
		out.Preferences = json.RawMessage(a.Preferences)
	}

	for _, t := range trips {
		item := response_models.ProfileTrip{
			ID:          t.ID.String(),
			Title:       t.Title,
			Slug:        t.Slug,
			Description: t.Description,
			Status:      t.Status,
			StartDate:   t.StartDate,
			EndDate:     t.EndDate,
		}
		switch t.Status {
		case db_models.TripStatusDraft, db_models.TripStatusPublished:
			out.PreplannedTrips = append(out.PreplannedTrips, item)
		case db_models.TripStatusCompleted:
			out.PreviousTrips = append(out.PreviousTrips, item)
		}
	}
	return out
}

func toAccountResponse(a *db_models.Account) response_models.AccountResponse {
	return response_models.AccountResponse{
		ID:          a.ID.String(),
		DisplayName: a.DisplayName,
		Email:       a.Email,
		Role:        a.Role,
		Verified:    a.IsVerified,
	}
}
