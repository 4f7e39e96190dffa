package entity

// ValidLabels - закрытый набор меток. Порядок важен: санитайзер ответа
// модели ищет подстроку именно в этом порядке.
var ValidLabels = []string{"work", "personal", "priority", "shopping", "home"}

// IsValidLabel проверяет, что строка входит в закрытый набор меток
func IsValidLabel(label string) bool {
	for _, l := range ValidLabels {
		if label == l {
			return true
		}
	}
	return false
}
