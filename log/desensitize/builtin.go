package desensitize

var (
	// BearerRule Bearer 令牌脱敏规则 (Bearer eyJhbGciOi... -> Bearer ******)
	BearerRule = MustNewContentRule(
		"bearer",
		`(?i)\b(bearer)\s+[A-Za-z0-9\-._~+/]+=*`,
		"$1 ******",
	)

	// BasicAuthRule Basic 认证脱敏规则
	BasicAuthRule = MustNewContentRule(
		"basic",
		`\b(Basic)\s+[A-Za-z0-9+/]+=*`,
		"$1 ******",
	)

	// EmailRule 邮箱脱敏规则 (user@example.com -> u***r@e***.com)
	EmailRule = MustNewContentRule(
		"email",
		`\b([A-Za-z0-9])[A-Za-z0-9._%+-]*([A-Za-z0-9])@([A-Za-z0-9])[A-Za-z0-9.-]*\.([A-Z|a-z]{2,})\b`,
		"$1***$2@$3***.$4",
	)

	// PasswordRule 密码字段脱敏规则（针对JSON中的password字段）
	PasswordRule = MustNewFieldRule(
		"password",
		"password",
		`.*`,
		"******",
	)

	// TokenRule Token字段脱敏规则
	TokenRule = MustNewFieldRule(
		"token",
		"token",
		`.*`,
		"******",
	)

	// AccessTokenRule access_token 字段脱敏规则
	AccessTokenRule = MustNewFieldRule(
		"access_token",
		"access_token",
		`.*`,
		"******",
	)

	// RefreshTokenRule refresh_token 字段脱敏规则
	RefreshTokenRule = MustNewFieldRule(
		"refresh_token",
		"refresh_token",
		`.*`,
		"******",
	)

	// SecretRule Secret字段脱敏规则
	SecretRule = MustNewFieldRule(
		"secret",
		"secret",
		`.*`,
		"******",
	)
)

// BuiltinRules 返回凭证相关的内置规则
func BuiltinRules() []Rule {
	return []Rule{
		BearerRule,
		BasicAuthRule,
		PasswordRule,
		TokenRule,
		AccessTokenRule,
		RefreshTokenRule,
		SecretRule,
	}
}
