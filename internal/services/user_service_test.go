package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func TestRegister(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.Register("alice", "Alice@Test.com", "password123")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Email != "alice@test.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Role != models.RoleUser {
			t.Errorf("expected default role user, got %s", user.Role)
		}
		if user.Budget != 0 {
			t.Errorf("expected default budget 0, got %v", user.Budget)
		}
		if user.Password == "password123" {
			t.Error("password must not be stored in plaintext")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("bob", "bob@test.com", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.Register("bob2", "bob@test.com", "password123")
		testutil.AssertAppError(t, err, "USER_EXISTS")
	})

	t.Run("database_failure", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		testutil.TeardownTestDB(t, db)

		// The duplicate-email lookup fails; the error must be wrapped,
		// not read as "no duplicate" and fall through to Create.
		_, err := svc.Register("carol", "carol@test.com", "password123")
		testutil.AssertAppError(t, err, "INTERNAL_ERROR")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("", "carol@test.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("register_then_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		registered, err := svc.Register("dave", "dave@test.com", "password123")
		testutil.AssertNoError(t, err)

		user, err := svc.AttemptLogin("dave@test.com", "password123")
		testutil.AssertNoError(t, err)
		if user.ID != registered.ID {
			t.Errorf("expected user %d, got %d", registered.ID, user.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Register("erin", "erin@test.com", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("erin@test.com", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_account_same_error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@test.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db, 0)

		err := svc.ChangePassword(user.ID, testutil.DefaultPassword, "newpassword456")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin(user.Email, "newpassword456")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin(user.Email, testutil.DefaultPassword)
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("wrong_old_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db, 0)

		err := svc.ChangePassword(user.ID, "wrong", "newpassword456")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestUpdateBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db, 0)

	updated, err := svc.UpdateBudget(user.ID, 1500)
	testutil.AssertNoError(t, err)
	if updated.Budget != 1500 {
		t.Errorf("expected budget 1500, got %v", updated.Budget)
	}

	reloaded, err := svc.GetUserByID(user.ID)
	testutil.AssertNoError(t, err)
	if reloaded.Budget != 1500 {
		t.Errorf("expected persisted budget 1500, got %v", reloaded.Budget)
	}
}

func TestDeleteUser(t *testing.T) {
	t.Run("removes_user_and_sessions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db, 0)

		hash := "deadbeef"
		testutil.AssertNoError(t, svc.StoreToken(user.ID, hash, time.Now().Add(time.Hour)))

		testutil.AssertNoError(t, svc.DeleteUser(user.ID))

		_, err := svc.GetUserByID(user.ID)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")

		if svc.IsTokenActive(user.ID, hash) {
			t.Error("expected deleted user's token set to be revoked")
		}
	})

	t.Run("nonexistent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		err := svc.DeleteUser(9999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestGetAllUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	testutil.CreateTestUser(t, db, 0)
	testutil.CreateTestUser(t, db, 0)
	testutil.CreateTestAdmin(t, db)

	result, err := svc.GetAllUsers(pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if result.TotalItems != 3 {
		t.Errorf("expected 3 users, got %d", result.TotalItems)
	}
	if result.Limit != 10 {
		t.Errorf("expected default limit 10, got %d", result.Limit)
	}
}

func TestGetUserRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user := testutil.CreateTestUser(t, db, 0)
	admin := testutil.CreateTestAdmin(t, db)

	role, err := svc.GetUserRole(user.ID)
	testutil.AssertNoError(t, err)
	if role.IsAdmin() {
		t.Error("expected plain user role")
	}

	role, err = svc.GetUserRole(admin.ID)
	testutil.AssertNoError(t, err)
	if !role.IsAdmin() {
		t.Error("expected admin role")
	}
}

func TestTokenSet(t *testing.T) {
	t.Run("revoke_removes_only_presented_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db, 0)

		expiry := time.Now().Add(time.Hour)
		testutil.AssertNoError(t, svc.StoreToken(user.ID, "hash-a", expiry))
		testutil.AssertNoError(t, svc.StoreToken(user.ID, "hash-b", expiry))

		testutil.AssertNoError(t, svc.RevokeToken(user.ID, "hash-a"))

		if svc.IsTokenActive(user.ID, "hash-a") {
			t.Error("revoked token must not authenticate")
		}
		if !svc.IsTokenActive(user.ID, "hash-b") {
			t.Error("other sessions must remain valid")
		}
	})

	t.Run("expired_token_inactive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db, 0)

		testutil.AssertNoError(t, svc.StoreToken(user.ID, "hash-old", time.Now().Add(-time.Minute)))
		if svc.IsTokenActive(user.ID, "hash-old") {
			t.Error("expired token must not authenticate")
		}
	})

	t.Run("lookup_failure_fails_closed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db, 0)
		testutil.AssertNoError(t, svc.StoreToken(user.ID, "hash-x", time.Now().Add(time.Hour)))
		testutil.TeardownTestDB(t, db)

		if svc.IsTokenActive(user.ID, "hash-x") {
			t.Error("a failed session lookup must not authenticate")
		}
	})

	t.Run("revoke_unknown_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db, 0)

		err := svc.RevokeToken(user.ID, "missing")
		testutil.AssertAppError(t, err, "UNAUTHORIZED")
	})
}
