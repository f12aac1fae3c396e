package profileview

// Branch is what the favorites section shows.
type Branch int

const (
	BranchNone Branch = iota
	BranchSkeleton
	BranchError
	BranchEmpty
	BranchList
)

// SkeletonCount is the number of placeholder cards shown while loading.
const SkeletonCount = 2

func (b Branch) String() string {
	switch b {
	case BranchSkeleton:
		return "skeleton"
	case BranchError:
		return "error"
	case BranchEmpty:
		return "empty"
	case BranchList:
		return "list"
	default:
		return "none"
	}
}

// SelectBranch picks the favorites branch from the hook flags and the number
// of locally listed favorites. The first matching rule wins:
//
//	loading and no items        -> skeleton
//	not loading and an error    -> error
//	not loading and no items    -> empty
//	no error and some items     -> list
//
// Anything else renders nothing.
func SelectBranch(loading bool, err string, n int) Branch {
	switch {
	case loading && n == 0:
		return BranchSkeleton
	case !loading && err != "":
		return BranchError
	case !loading && n == 0:
		return BranchEmpty
	case err == "" && n > 0:
		return BranchList
	default:
		return BranchNone
	}
}
