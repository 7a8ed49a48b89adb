package accounts

import (
	"context"
	"errors"
	"testing"

	"o365-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	codes       map[string]*models.InvitationCode
	useResult   bool
	useErr      error
	useCalls    []string // "code email"
	deleteCalls []uint
}

func (f *fakeLedger) VerifyCode(ctx context.Context, code string) (*models.InvitationCode, error) {
	return f.codes[code], nil
}

func (f *fakeLedger) UseCode(ctx context.Context, code, email string) (bool, error) {
	f.useCalls = append(f.useCalls, code+" "+email)
	return f.useResult, f.useErr
}

func (f *fakeLedger) DeleteCode(ctx context.Context, id uint) (bool, error) {
	f.deleteCalls = append(f.deleteCalls, id)
	return true, nil
}

type fakeDirectory struct {
	createErr   error
	createCalls int
	deleteCalls []string
	deleteErr   error
	enableCalls []string
	lastUser    models.User
}

func (f *fakeDirectory) CreateUser(ctx context.Context, user models.User, domain, skuID string) (string, error) {
	f.createCalls++
	f.lastUser = user
	if f.createErr != nil {
		return "", f.createErr
	}
	return user.UserName + "@" + domain, nil
}

func (f *fakeDirectory) DeleteUser(ctx context.Context, email string) error {
	f.deleteCalls = append(f.deleteCalls, email)
	return f.deleteErr
}

func (f *fakeDirectory) EnableUser(ctx context.Context, email string) error {
	f.enableCalls = append(f.enableCalls, email)
	return nil
}

func setupAccountsTest() (*Service, *fakeLedger, *fakeDirectory) {
	ledger := &fakeLedger{codes: map[string]*models.InvitationCode{}, useResult: true}
	dir := &fakeDirectory{}
	return &Service{Ledger: ledger, Directory: dir}, ledger, dir
}

func TestCreateAccount_NoCode(t *testing.T) {
	svc, ledger, dir := setupAccountsTest()

	result, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		DisplayName: "Li Si",
		UserName:    "lisi",
		Domain:      "contoso.onmicrosoft.com",
		SkuID:       "sku",
	})
	require.NoError(t, err)
	assert.Equal(t, "lisi@contoso.onmicrosoft.com", result.Email)
	assert.Len(t, result.Password, 8)
	assert.Equal(t, result.Password, dir.lastUser.Password)
	assert.Empty(t, ledger.useCalls)
}

func TestCreateAccount_CodeNotFound(t *testing.T) {
	svc, _, dir := setupAccountsTest()

	_, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		InvitationCode: "MISSING1",
		DisplayName:    "Li Si",
		UserName:       "lisi",
		Domain:         "contoso.onmicrosoft.com",
		SkuID:          "sku",
	})
	assert.ErrorIs(t, err, ErrCodeNotFound)
	// rejected before any directory side effect
	assert.Zero(t, dir.createCalls)
}

func TestCreateAccount_CodeAlreadyUsed(t *testing.T) {
	svc, ledger, dir := setupAccountsTest()
	ledger.codes["USED1234"] = &models.InvitationCode{Code: "USED1234", Status: models.StatusUsed, Email: "prev@b.com"}

	_, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		InvitationCode: "USED1234",
		DisplayName:    "Li Si",
		UserName:       "lisi",
		Domain:         "contoso.onmicrosoft.com",
		SkuID:          "sku",
	})
	assert.ErrorIs(t, err, ErrCodeUsed)
	assert.Zero(t, dir.createCalls)
}

func TestCreateAccount_ConsumesCode(t *testing.T) {
	svc, ledger, _ := setupAccountsTest()
	ledger.codes["GOOD1234"] = &models.InvitationCode{Code: "GOOD1234", Status: models.StatusUnused}

	result, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		InvitationCode: "GOOD1234",
		DisplayName:    "Li Si",
		UserName:       "lisi",
		Domain:         "contoso.onmicrosoft.com",
		SkuID:          "sku",
	})
	require.NoError(t, err)
	require.Len(t, ledger.useCalls, 1)
	assert.Equal(t, "GOOD1234 lisi@contoso.onmicrosoft.com", ledger.useCalls[0])
	assert.Equal(t, "lisi@contoso.onmicrosoft.com", result.Email)
}

func TestCreateAccount_DirectoryFailureLeavesCodeUnused(t *testing.T) {
	svc, ledger, dir := setupAccountsTest()
	ledger.codes["GOOD1234"] = &models.InvitationCode{Code: "GOOD1234", Status: models.StatusUnused}
	dir.createErr = errors.New("创建用户失败")

	_, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		InvitationCode: "GOOD1234",
		DisplayName:    "Li Si",
		UserName:       "lisi",
		Domain:         "contoso.onmicrosoft.com",
		SkuID:          "sku",
	})
	require.Error(t, err)
	assert.Empty(t, ledger.useCalls)
}

func TestCreateAccount_LostConsumptionRace(t *testing.T) {
	svc, ledger, _ := setupAccountsTest()
	ledger.codes["GOOD1234"] = &models.InvitationCode{Code: "GOOD1234", Status: models.StatusUnused}
	ledger.useResult = false

	// losing the UseCode race still returns the created credentials
	result, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		InvitationCode: "GOOD1234",
		DisplayName:    "Li Si",
		UserName:       "lisi",
		Domain:         "contoso.onmicrosoft.com",
		SkuID:          "sku",
	})
	require.NoError(t, err)
	assert.Equal(t, "lisi@contoso.onmicrosoft.com", result.Email)
	assert.NotEmpty(t, result.Password)
}

func TestEnableAccount(t *testing.T) {
	svc, _, dir := setupAccountsTest()

	require.NoError(t, svc.EnableAccount(context.Background(), "u@contoso.onmicrosoft.com"))
	assert.Equal(t, []string{"u@contoso.onmicrosoft.com"}, dir.enableCalls)
}

func TestRemoveCode_WithEmail(t *testing.T) {
	svc, ledger, dir := setupAccountsTest()

	require.NoError(t, svc.RemoveCode(context.Background(), 7, "u@contoso.onmicrosoft.com"))
	assert.Equal(t, []string{"u@contoso.onmicrosoft.com"}, dir.deleteCalls)
	assert.Equal(t, []uint{7}, ledger.deleteCalls)
}

func TestRemoveCode_WithoutEmail(t *testing.T) {
	svc, ledger, dir := setupAccountsTest()

	require.NoError(t, svc.RemoveCode(context.Background(), 7, ""))
	assert.Empty(t, dir.deleteCalls)
	assert.Equal(t, []uint{7}, ledger.deleteCalls)
}

func TestRemoveCode_DirectoryFailureKeepsCode(t *testing.T) {
	svc, ledger, dir := setupAccountsTest()
	dir.deleteErr = errors.New("删除用户失败")

	err := svc.RemoveCode(context.Background(), 7, "u@contoso.onmicrosoft.com")
	require.Error(t, err)
	assert.Empty(t, ledger.deleteCalls)
}

func TestGeneratePassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p := GeneratePassword()
		assert.Len(t, p, 8)
		seen[p] = true
	}
	assert.Greater(t, len(seen), 1)
}
