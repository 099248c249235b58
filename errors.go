package sapling

// TrainingError represents an error that prevents a tree from being grown
type TrainingError string

/*
ErrEmptyTrainingSet is the error returned when trying to grow a tree from a
frame without rows.
*/
const ErrEmptyTrainingSet = TrainingError("cannot grow a tree from an empty training set")

/*
ErrNotCategoricalLabel is the error returned when the response of a frame is
not categorical after validation, which only happens for frames built
without one.
*/
const ErrNotCategoricalLabel = TrainingError("response feature is not categorical")

func (te TrainingError) Error() string {
	return string(te)
}
