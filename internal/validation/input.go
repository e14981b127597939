package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinNameLength          = 2
	MaxNameLength          = 100
	MinProjectTitleLength  = 3
	MaxProjectTitleLength  = 200
	MinProjectDescLength   = 10
	MaxProjectDescLength   = 10000
	MinCoverLetterLength   = 10
	MaxCoverLetterLength   = 5000
	MaxBioLength           = 2000
	MaxLocationLength      = 100
	MaxSkillsCount         = 50
	MaxPortfolioLinks      = 20
	MaxLanguagesCount      = 20
	MaxExternalLinkLength  = 500
	MaxDisputeReasonLength = 2000
	MaxHourlyRate          = 100000.0
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должно быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должно быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}
	local, domain := parts[0], parts[1]

	if len(local) == 0 || len(local) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domain) == 0 || len(domain) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !emailLocalRegex.MatchString(local) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domain) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}
	return nil
}

func ValidateName(name string) error {
	return ValidateLength("имя", strings.TrimSpace(name), MinNameLength, MaxNameLength)
}

func ValidateProjectTitle(title string) error {
	return ValidateLength("название проекта", strings.TrimSpace(title), MinProjectTitleLength, MaxProjectTitleLength)
}

func ValidateProjectDescription(description string) error {
	return ValidateLength("описание проекта", strings.TrimSpace(description), MinProjectDescLength, MaxProjectDescLength)
}

func ValidateCoverLetter(coverLetter string) error {
	return ValidateLength("сопроводительное письмо", strings.TrimSpace(coverLetter), MinCoverLetterLength, MaxCoverLetterLength)
}

func ValidateDisputeReason(reason string) error {
	return ValidateLength("причина спора", strings.TrimSpace(reason), 0, MaxDisputeReasonLength)
}

func ValidateHourlyRate(rate *float64) error {
	if rate == nil {
		return nil
	}
	if *rate < 0 {
		return fmt.Errorf("почасовая ставка не может быть отрицательной")
	}
	if *rate > MaxHourlyRate {
		return fmt.Errorf("почасовая ставка не может превышать %.0f", MaxHourlyRate)
	}
	return nil
}

func ValidateBio(bio string) error {
	return ValidateLength("описание профиля", strings.TrimSpace(bio), 0, MaxBioLength)
}

func ValidateLocation(location *string) error {
	if location == nil {
		return nil
	}
	return ValidateLength("местоположение", strings.TrimSpace(*location), 0, MaxLocationLength)
}

// ValidateExternalLink проверяет http(s) ссылку.
func ValidateExternalLink(link string) error {
	link = strings.TrimSpace(link)
	if err := ValidateLength("ссылка", link, 1, MaxExternalLinkLength); err != nil {
		return err
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("некорректный формат URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("ссылка должна начинаться с http:// или https://")
	}
	if parsed.Host == "" {
		return fmt.Errorf("ссылка должна содержать доменное имя")
	}
	return nil
}

func ValidatePortfolioLinks(links []string) error {
	if len(links) > MaxPortfolioLinks {
		return fmt.Errorf("ссылок на портфолио не может быть больше %d", MaxPortfolioLinks)
	}
	for _, link := range links {
		if err := ValidateExternalLink(link); err != nil {
			return err
		}
	}
	return nil
}

func ValidateCount(fieldName string, n, max int) error {
	if n > max {
		return fmt.Errorf("%s: не более %d элементов", fieldName, max)
	}
	return nil
}
