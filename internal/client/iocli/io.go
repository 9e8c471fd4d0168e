package iocli

//go:generate moq -out io_mock.go . IO

// IO ввод-вывод терминального клиента
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	// ReadInput читает одну строку без завершающих пробелов.
	// На конце ввода возвращает io.EOF.
	ReadInput(prompt string) (string, error)
	Write(p []byte) (n int, err error)
}
