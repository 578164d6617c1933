package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildChain_dependencyOrder(t *testing.T) {
	in, err := testForm().Normalize()
	require.NoError(t, err)

	steps := buildChain(nil, in, false)
	require.NoError(t, checkChain(steps))

	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.Name)
	}
	require.Equal(t, []string{"organisation", "department", "course", "sections", "teacher", "subject", "subject-teacher"}, names)
}

func TestCheckChain_rejectsMissingDependency(t *testing.T) {
	in, err := testForm().Normalize()
	require.NoError(t, err)

	steps := buildChain(nil, in, false)
	// mapping before subject
	steps[5], steps[6] = steps[6], steps[5]

	err = checkChain(steps)
	require.ErrorIs(t, err, ErrInvalidChain)
	require.Contains(t, err.Error(), "subject_id")
}

func TestRunChain_stopsAtFirstFailure(t *testing.T) {
	var ran []string
	step := func(name string, err error) Step {
		return Step{
			Name: name,
			Run: func(context.Context, IDs) (IDs, error) {
				ran = append(ran, name)
				return IDs{IDKey(name): 1}, err
			},
		}
	}

	boom := errors.New("boom")
	result := runChain(context.Background(), []Step{
		step("one", nil),
		step("two", boom),
		step("three", nil),
	}, nil)

	require.False(t, result.OK())
	require.Equal(t, []string{"one", "two"}, ran)
	require.Equal(t, 2, result.Failed.Step)
	require.Equal(t, "two", result.Failed.Name)
	require.ErrorIs(t, result.Failed, boom)
	require.Equal(t, IDs{"one": 1, "two": 1}, result.IDs)
}

func TestRunChain_rejectsZeroIdentifier(t *testing.T) {
	result := runChain(context.Background(), []Step{{
		Name:     "organisation",
		Produces: []IDKey{OrganisationID},
		Run: func(context.Context, IDs) (IDs, error) {
			return IDs{OrganisationID: 0}, nil
		},
	}}, nil)

	require.ErrorIs(t, result.Failed, ErrMissingIdentifier)
	require.Empty(t, result.IDs)
}
