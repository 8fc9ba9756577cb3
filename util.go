package tick

// MaxNameLength 订阅名称的最大长度
const MaxNameLength = 64

// ValidateName 验证订阅名称
// 名称用于日志、Inspector 和指标标签，只允许字母、数字以及 _ - : . /
// 冒号和斜杠用于按模块分组，例如 "enemy:spawn" 或 "ui/cooldown"
func ValidateName(name string) error {
	if name == "" || len(name) > MaxNameLength {
		return ErrInvalidName
	}

	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '_', ch == '-', ch == ':', ch == '.', ch == '/':
		default:
			return ErrInvalidName
		}
	}

	return nil
}
