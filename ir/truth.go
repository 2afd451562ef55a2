package ir

// Truth reports the truthiness of a node the way a loosely typed host
// language would. Collections are always true; "", 0, false and null are
// false.
func Truth(node *Node) bool {
	if node == nil {
		return false
	}
	switch node.Type {
	case ObjectType, ArrayType:
		return true
	case StringType:
		return node.String != ""
	case NumberType:
		if node.Int64 != nil {
			return *node.Int64 != 0
		}
		if node.Float64 != nil {
			return *node.Float64 != 0.0
		}
		return node.Number != "" && node.Number != "0"
	case BoolType:
		return node.Bool
	case CustomType:
		return node.Custom != nil
	default:
		return false
	}
}
