package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the key.
const (
	MsgStarting        = "Starting processing..."
	MsgRemovingBg      = "Removing background (%d/%d)..."
	MsgAddingFrame     = "Adding frame (%d/%d)..."
	MsgRetouching      = "Retouching image (%d/%d)..."
	MsgSmartCropping   = "Smart cropping (%d/%d)..."
	MsgPreparing       = "Preparing images..."
	MsgCreatingCollage = "Creating collage..."
	MsgSwapping        = "Swapping people onto backgrounds..."
	MsgOptimizing      = "Creating social media versions..."
	MsgDone            = "Done!"

	MsgNotAnImage      = "File %s is not an image"
	MsgTooLarge        = "File %s is too large (over 10 MB)"
	MsgPickFilesFirst  = "Select files and a processing type"
	MsgProcessingError = "Error while processing image: %s"
	MsgUnknownMode     = "Unknown processing type"
	MsgServerError     = "Server error"
	MsgLoginOK         = "Signed in successfully!"
	MsgLoginFailed     = "Login failed"
	MsgRegisterOK      = "Registration successful!"
	MsgRegisterFailed  = "Registration failed"
	MsgConnectFailed   = "Could not connect to the server"

	MsgResult        = "result"
	MsgPhotoN        = "photo %d"
	MsgSocialSummary = "Created %d versions, original size %s"
)

func init() {
	ru := language.Russian
	for key, text := range map[string]string{
		MsgStarting:        "Начинаем обработку...",
		MsgRemovingBg:      "Удаление фона (%d/%d)...",
		MsgAddingFrame:     "Добавление рамки (%d/%d)...",
		MsgRetouching:      "Ретушь изображения (%d/%d)...",
		MsgSmartCropping:   "Умная обрезка (%d/%d)...",
		MsgPreparing:       "Подготовка изображений...",
		MsgCreatingCollage: "Создание коллажа...",
		MsgSwapping:        "Перенос людей на фоны...",
		MsgOptimizing:      "Создание версий для соцсетей...",
		MsgDone:            "Завершено!",
		MsgNotAnImage:      "Файл %s не является изображением",
		MsgTooLarge:        "Файл %s слишком большой (более 10 МБ)",
		MsgPickFilesFirst:  "Выберите файлы и тип обработки",
		MsgProcessingError: "Ошибка при обработке изображения: %s",
		MsgUnknownMode:     "Неизвестный тип обработки",
		MsgServerError:     "Ошибка сервера",
		MsgLoginOK:         "Вход выполнен успешно!",
		MsgLoginFailed:     "Ошибка входа",
		MsgRegisterOK:      "Регистрация выполнена успешно!",
		MsgRegisterFailed:  "Ошибка регистрации",
		MsgConnectFailed:   "Ошибка подключения к серверу",
		MsgResult:          "результат",
		MsgPhotoN:          "фото %d",
		MsgSocialSummary:   "Создано %d версий, исходный размер %s",
	} {
		if err := message.SetString(ru, key, text); err != nil {
			panic(err)
		}
	}
}

// Printer formats localized messages
type Printer struct {
	p *message.Printer
}

// New returns a printer for the given language code ("ru", "en", ...).
// Unknown or empty codes fall back to English.
func New(lang string) *Printer {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		tag = language.English
	}
	return &Printer{p: message.NewPrinter(tag)}
}

// Sprintf formats the message registered under key
func (p *Printer) Sprintf(key string, args ...any) string {
	if p == nil || p.p == nil {
		return New("en").Sprintf(key, args...)
	}
	return p.p.Sprintf(key, args...)
}
