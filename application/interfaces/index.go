package interfaces

// ApplicationContext carries a parsed request through controllers and use
// cases without binding them to any specific web framework.
type ApplicationContext[T any] struct {
	Ctx    interface{}
	Body   T
	Param  map[string]any
	Header map[string][]string
}

func (ac *ApplicationContext[T]) GetParam(key string) (any, bool) {
	if ac.Param == nil {
		return nil, false
	}
	value, exists := ac.Param[key]
	return value, exists
}

func (ac *ApplicationContext[T]) GetStringParam(key string) string {
	value, exists := ac.GetParam(key)
	if !exists {
		return ""
	}
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return str
}
