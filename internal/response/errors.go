package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrTooManyAttempts    ErrCode = "TOO_MANY_ATTEMPTS"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Institution ───────────────────────────────────────────────────
	ErrInstitutionFrozen    ErrCode = "INSTITUTION_FROZEN"
	ErrInstitutionDisabled  ErrCode = "INSTITUTION_DISABLED"
	ErrDuplicateInstitution ErrCode = "DUPLICATE_INSTITUTION_NAME"

	// ─── Academic session lifecycle ────────────────────────────────────
	ErrNoActiveSession       ErrCode = "NO_ACTIVE_SESSION"
	ErrActiveSessionArchived ErrCode = "ACTIVE_SESSION_ARCHIVED"
	ErrActiveSessionExists   ErrCode = "ACTIVE_SESSION_EXISTS"
	ErrSessionNotActive      ErrCode = "SESSION_NOT_ACTIVE"
	ErrSessionArchived       ErrCode = "SESSION_ARCHIVED"
	ErrSessionStillActive    ErrCode = "SESSION_STILL_ACTIVE"
	ErrSessionNotArchived    ErrCode = "SESSION_NOT_ARCHIVED"
	ErrInvalidDateRange      ErrCode = "INVALID_DATE_RANGE"
	ErrDuplicateSessionName  ErrCode = "DUPLICATE_SESSION_NAME"

	// ─── Classes and students ──────────────────────────────────────────
	ErrClassFrozen             ErrCode = "CLASS_FROZEN"
	ErrClassNotInActiveSession ErrCode = "CLASS_NOT_IN_ACTIVE_SESSION"
	ErrDuplicateClassName      ErrCode = "DUPLICATE_CLASS_NAME"
	ErrDuplicateNIS            ErrCode = "DUPLICATE_NIS"

	// ─── Teachers ──────────────────────────────────────────────────────
	ErrClassAlreadyAssigned   ErrCode = "CLASS_ALREADY_ASSIGNED"
	ErrTeacherAlreadyAssigned ErrCode = "TEACHER_ALREADY_ASSIGNED"
	ErrDuplicateEmail         ErrCode = "DUPLICATE_EMAIL"

	// ─── Promotion ─────────────────────────────────────────────────────
	ErrSourceSessionActive    ErrCode = "SOURCE_SESSION_ACTIVE"
	ErrSourceSessionArchived  ErrCode = "SOURCE_SESSION_ARCHIVED"
	ErrTargetSessionNotActive ErrCode = "TARGET_SESSION_NOT_ACTIVE"
	ErrStudentsNotInSource    ErrCode = "STUDENTS_NOT_IN_SOURCE"
	ErrNoStudentsToPromote    ErrCode = "NO_STUDENTS_TO_PROMOTE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email atau kata sandi salah."
	case ErrSessionInvalidated:
		return "Sesi Anda telah berakhir. Silakan login kembali."
	case ErrTokenRequired:
		return "Token autentikasi diperlukan."
	case ErrTokenInvalid:
		return "Token autentikasi tidak valid."
	case ErrTokenExpired:
		return "Token autentikasi telah kedaluwarsa."
	case ErrTooManyAttempts:
		return "Terlalu banyak percobaan login. Silakan coba lagi nanti."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Anda tidak memiliki izin untuk mengakses sumber daya ini."
	case ErrPermissionDenied:
		return "Izin ditolak."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validasi gagal. Silakan periksa masukan Anda."
	case ErrInvalidID:
		return "Format ID tidak valid."
	case ErrInvalidPayload:
		return "Payload permintaan tidak valid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Sumber daya tidak ditemukan."
	case ErrConflict:
		return "Sumber daya sudah ada."
	case ErrDependencyExists:
		return "Data tidak dapat dihapus karena masih digunakan oleh data lain."

	// ─── Institution ───────────────────────────────────────────────────
	case ErrInstitutionFrozen:
		return "Institusi sedang dibekukan. Semua perubahan data ditolak."
	case ErrInstitutionDisabled:
		return "Institusi tidak aktif."
	case ErrDuplicateInstitution:
		return "Nama institusi sudah digunakan."

	// ─── Academic session lifecycle ────────────────────────────────────
	case ErrNoActiveSession:
		return "Tidak ada tahun ajaran yang aktif."
	case ErrActiveSessionArchived:
		return "Tahun ajaran aktif berada dalam status arsip."
	case ErrActiveSessionExists:
		return "Sudah ada tahun ajaran lain yang aktif."
	case ErrSessionNotActive:
		return "Tahun ajaran ini tidak aktif."
	case ErrSessionArchived:
		return "Tahun ajaran ini sudah diarsipkan."
	case ErrSessionStillActive:
		return "Tahun ajaran masih aktif dan tidak dapat diarsipkan."
	case ErrSessionNotArchived:
		return "Tahun ajaran ini tidak berada dalam status arsip."
	case ErrInvalidDateRange:
		return "Tanggal mulai harus sebelum tanggal selesai."
	case ErrDuplicateSessionName:
		return "Nama tahun ajaran sudah digunakan."

	// ─── Classes and students ──────────────────────────────────────────
	case ErrClassFrozen:
		return "Kelas sedang dibekukan."
	case ErrClassNotInActiveSession:
		return "Kelas tidak berada pada tahun ajaran aktif."
	case ErrDuplicateClassName:
		return "Nama kelas sudah digunakan pada tahun ajaran ini."
	case ErrDuplicateNIS:
		return "NIS sudah digunakan pada tahun ajaran ini."

	// ─── Teachers ──────────────────────────────────────────────────────
	case ErrClassAlreadyAssigned:
		return "Kelas sudah memiliki wali kelas."
	case ErrTeacherAlreadyAssigned:
		return "Guru sudah menjadi wali kelas lain pada tahun ajaran ini."
	case ErrDuplicateEmail:
		return "Email sudah digunakan."

	// ─── Promotion ─────────────────────────────────────────────────────
	case ErrSourceSessionActive:
		return "Tahun ajaran sumber masih aktif."
	case ErrSourceSessionArchived:
		return "Tahun ajaran sumber sudah diarsipkan."
	case ErrTargetSessionNotActive:
		return "Tahun ajaran tujuan bukan tahun ajaran aktif."
	case ErrStudentsNotInSource:
		return "Sebagian siswa tidak ditemukan pada tahun ajaran sumber."
	case ErrNoStudentsToPromote:
		return "Tidak ada siswa yang dapat dipromosikan."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Terlalu banyak permintaan. Silakan coba lagi nanti."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Terjadi kesalahan server internal."
	default:
		return "Terjadi kesalahan yang tidak terduga."
	}
}
