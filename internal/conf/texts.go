package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Texts contains the bot's configurable texts, loaded from YAML.
type Texts struct {
	// Quotes served by «книга братан»; may contain @{username}
	Quotes []string `yaml:"quotes"`

	// Birthday toast templates; {username} is substituted
	BirthdayToasts []string `yaml:"birthday_toasts"`

	// Help message; empty means the built-in one
	Help string `yaml:"help"`
}

// LoadTexts loads bot texts from a YAML file. With an empty path a few
// default locations are tried; when nothing is found the embedded
// defaults are used.
func LoadTexts(configPath string) (*Texts, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/texts.yaml",
			"./configs/texts.yaml",
			"/etc/kniga-bratan/texts.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "texts.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if b, err := os.ReadFile(p); err == nil {
			data = b
			loadedPath = p
			break
		}
	}

	if data == nil {
		fmt.Println("[Config] No texts.yaml found, using defaults")
		return DefaultTexts(), nil
	}

	fmt.Printf("[Config] Loading texts from: %s\n", loadedPath)

	texts := DefaultTexts()
	if err := yaml.Unmarshal(data, texts); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", loadedPath, err)
	}
	if len(texts.BirthdayToasts) == 0 {
		texts.BirthdayToasts = DefaultTexts().BirthdayToasts
	}
	if texts.Help == "" {
		texts.Help = DefaultTexts().Help
	}
	return texts, nil
}

// DefaultTexts returns the embedded texts.
func DefaultTexts() *Texts {
	return &Texts{
		Quotes: nil, // the quote command has its own fallback line
		BirthdayToasts: []string{
			"С днём рождения, @{username}! Пусть удача всегда улыбается тебе! 🎉",
			"Поздравляем, @{username}! Желаем радости, успеха и крепкого здоровья! 🥳",
			"С праздником, @{username}! Пусть каждый день приносит тебе только счастье! 🎂",
			"День рождения – отличный повод сказать: @{username}, ты лучший! Пусть всё сбудется! 🎈",
			"Поздравляем, @{username}! Пусть жизнь дарит тебе только яркие моменты! 🎊",
		},
		// Replies go out as plain text, so no markup here.
		Help: strings.Join([]string{
			"🆘 Список команд:",
			"1. Книга братан – Напиши 'Книга братан' и получи мудрую цитату.",
			"2. !add <ключ> – Добавить триггер (только админы).",
			"3. !del <ключ> – Удалить триггер (только админы).",
			"4. !list – Посмотреть список триггеров.",
			"5. Кто красавчик сегодня – Узнать, кто сегодня красавчик (обновляется раз в сутки).",
			"6. !bd <ДД.ММ.ГГГГ> – Установить дату рождения. В день рождения бот поздравит тебя!",
			"7. !talker или болтун – Узнать, кто болтун сегодня (статистика активности).",
			"8. !help – Показать это сообщение.",
		}, "\n"),
	}
}

// FormatToast fills a toast template with the username.
func FormatToast(template, username string) string {
	return strings.ReplaceAll(template, "{username}", username)
}
