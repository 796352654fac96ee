package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMealLogRollsUpNutritionDay(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "meals")

	green := "green"
	red := "red"
	_, err := d.LogMeal(MealLog{
		UserID: uid, LogDate: "2026-08-25", ColorCategory: &green,
		PlantServings: 4, FiberGrams: 12, WaterGlasses: 2,
	})
	require.NoError(t, err)
	_, err = d.LogMeal(MealLog{
		UserID: uid, LogDate: "2026-08-25", ColorCategory: &red,
		PlantServings: 1, FiberGrams: 3, WaterGlasses: 1,
	})
	require.NoError(t, err)

	day, err := d.NutritionDaySummary(uid, "2026-08-25")
	require.NoError(t, err)
	require.NotNil(t, day)
	require.Equal(t, 2, day.TotalMeals)
	require.Equal(t, 1, day.GreenCount)
	require.Equal(t, 1, day.RedCount)
	require.InDelta(t, 5.0, day.TotalPlantServings, 0.001)
	require.Equal(t, 3, day.TotalWaterGlasses)
}

func TestDeleteMealRecomputesDay(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "mealdel")

	id, err := d.LogMeal(MealLog{UserID: uid, LogDate: "2026-08-25", PlantServings: 2})
	require.NoError(t, err)

	require.NoError(t, d.DeleteMeal(id, uid))
	day, err := d.NutritionDaySummary(uid, "2026-08-25")
	require.NoError(t, err)
	require.Nil(t, day)
}

func TestFoodLogCalorieDay(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.SeedReference())
	uid := testUser(t, d, "calories")

	foods, err := d.SearchFoods("", "", 5)
	require.NoError(t, err)
	require.NotEmpty(t, foods)
	food := foods[0]

	_, err = d.LogFoodItem(uid, food.ID, "2026-08-25", "lunch", 2)
	require.NoError(t, err)

	day, err := d.CalorieDaySummary(uid, "2026-08-25")
	require.NoError(t, err)
	require.NotNil(t, day)
	require.Equal(t, 1, day.TotalItems)
	require.InDelta(t, 2*food.Calories, day.TotalCalories, 0.01)
}

func TestCalorieTargetsUpsert(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "targets")

	got, err := d.GetCalorieTargets(uid)
	require.NoError(t, err)
	require.Nil(t, got)

	cal := 2200.0
	require.NoError(t, d.SetCalorieTargets(uid, CalorieTargets{CalorieTarget: &cal}))
	got, err = d.GetCalorieTargets(uid)
	require.NoError(t, err)
	require.Equal(t, 2200.0, *got.CalorieTarget)

	cal2 := 2000.0
	protein := 140.0
	require.NoError(t, d.SetCalorieTargets(uid, CalorieTargets{CalorieTarget: &cal2, ProteinTargetG: &protein}))
	got, err = d.GetCalorieTargets(uid)
	require.NoError(t, err)
	require.Equal(t, 2000.0, *got.CalorieTarget)
	require.Equal(t, 140.0, *got.ProteinTargetG)
}

func TestFastingSessionFlow(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "fasting")

	active, err := d.ActiveFast(uid)
	require.NoError(t, err)
	require.Nil(t, active)

	_, err = d.StartFast(uid, "2026-08-25T20:00:00Z", 16, "16:8")
	require.NoError(t, err)

	// Only one open fast at a time.
	_, err = d.StartFast(uid, "2026-08-25T21:00:00Z", 16, "16:8")
	require.Error(t, err)

	active, err = d.ActiveFast(uid)
	require.NoError(t, err)
	require.NotNil(t, active)

	ended, err := d.EndFast(uid, "2026-08-26T13:00:00Z", "felt fine")
	require.NoError(t, err)
	require.NotNil(t, ended.ActualHours)
	require.InDelta(t, 17.0, *ended.ActualHours, 0.01)
	require.True(t, ended.Completed)

	active, err = d.ActiveFast(uid)
	require.NoError(t, err)
	require.Nil(t, active)

	history, err := d.FastingHistory(uid, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
}
