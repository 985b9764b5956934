package roomview

// needsUpdate is the re-render gate: the rendering layer is only told to
// repaint when one of these fields changed. Unrelated room metadata churn
// must not repaint, so the field list is part of the contract.
func needsUpdate(prevState, nextState ViewState, prevProps, nextProps Props) bool {
	switch {
	case prevState.Room.ReadOnly != nextState.Room.ReadOnly:
		return true
	case prevState.Room.Favorite != nextState.Room.Favorite:
		return true
	case prevState.Room.Blocked != nextState.Room.Blocked:
		return true
	case prevState.Room.Blocker != nextState.Room.Blocker:
		return true
	case prevState.Room.Archived != nextState.Room.Archived:
		return true
	case prevState.Loaded != nextState.Loaded:
		return true
	case prevState.Joined != nextState.Joined:
		return true
	case prevState.End != nextState.End:
		return true
	case prevState.LoadingMore != nextState.LoadingMore:
		return true
	case prevProps.ShowActions != nextProps.ShowActions:
		return true
	case prevProps.ShowErrorActions != nextProps.ShowErrorActions:
		return true
	case prevProps.Foreground != nextProps.Foreground:
		return true
	}

	return false
}
