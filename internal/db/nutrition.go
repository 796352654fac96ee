package db

import (
	"database/sql"
	"fmt"
	"time"
)

type MealLog struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	LogDate            string    `json:"log_date"`
	MealType           *string   `json:"meal_type,omitempty"`
	Description        *string   `json:"description,omitempty"`
	ColorCategory      *string   `json:"color_category,omitempty"`
	PlantServings      float64   `json:"plant_servings"`
	FruitServings      float64   `json:"fruit_servings"`
	VegetableServings  float64   `json:"vegetable_servings"`
	WholeGrainServings float64   `json:"whole_grain_servings"`
	LegumeServings     float64   `json:"legume_servings"`
	NutSeedServings    float64   `json:"nut_seed_servings"`
	FiberGrams         float64   `json:"fiber_grams"`
	WaterGlasses       int       `json:"water_glasses"`
	Notes              *string   `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// LogMeal records a meal and recomputes the day's nutrition summary.
func (db *DB) LogMeal(m MealLog) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO meal_logs
			(user_id, log_date, meal_type, description, color_category,
			 plant_servings, fruit_servings, vegetable_servings, whole_grain_servings,
			 legume_servings, nut_seed_servings, fiber_grams, water_glasses, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.UserID, m.LogDate, m.MealType, m.Description, m.ColorCategory,
		m.PlantServings, m.FruitServings, m.VegetableServings, m.WholeGrainServings,
		m.LegumeServings, m.NutSeedServings, m.FiberGrams, m.WaterGlasses, m.Notes)
	if err != nil {
		return 0, fmt.Errorf("logging meal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := db.RecomputeNutritionDay(m.UserID, m.LogDate); err != nil {
		return 0, err
	}
	return id, nil
}

func (db *DB) DeleteMeal(mealID, userID int64) error {
	var logDate string
	err := db.QueryRow(`SELECT log_date FROM meal_logs WHERE id = ? AND user_id = ?`,
		mealID, userID).Scan(&logDate)
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM meal_logs WHERE id = ?`, mealID); err != nil {
		return err
	}
	return db.RecomputeNutritionDay(userID, logDate)
}

func (db *DB) MealsForDate(userID int64, logDate string) ([]*MealLog, error) {
	rows, err := db.Query(`
		SELECT id, user_id, log_date, meal_type, description, color_category,
		       plant_servings, fruit_servings, vegetable_servings, whole_grain_servings,
		       legume_servings, nut_seed_servings, fiber_grams, water_glasses, notes, created_at
		FROM meal_logs WHERE user_id = ? AND log_date = ? ORDER BY id`, userID, logDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*MealLog
	for rows.Next() {
		m := &MealLog{}
		var mealType, desc, color, notes sql.NullString
		if err := rows.Scan(&m.ID, &m.UserID, &m.LogDate, &mealType, &desc, &color,
			&m.PlantServings, &m.FruitServings, &m.VegetableServings, &m.WholeGrainServings,
			&m.LegumeServings, &m.NutSeedServings, &m.FiberGrams, &m.WaterGlasses,
			&notes, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.MealType = nullStrPtr(mealType)
		m.Description = nullStrPtr(desc)
		m.ColorCategory = nullStrPtr(color)
		m.Notes = nullStrPtr(notes)
		out = append(out, m)
	}
	return out, rows.Err()
}

type NutritionDay struct {
	SummaryDate        string  `json:"summary_date"`
	TotalMeals         int     `json:"total_meals"`
	GreenCount         int     `json:"green_count"`
	YellowCount        int     `json:"yellow_count"`
	RedCount           int     `json:"red_count"`
	TotalPlantServings float64 `json:"total_plant_servings"`
	TotalFiberGrams    float64 `json:"total_fiber_grams"`
	TotalWaterGlasses  int     `json:"total_water_glasses"`
	PlantScore         int     `json:"plant_score"`
	NutritionScore     int     `json:"nutrition_score"`
}

// RecomputeNutritionDay rebuilds a day's summary row from its meal logs.
// The plant score rewards servings toward a 9/day target; the nutrition
// score blends plant score with the green/red meal balance.
func (db *DB) RecomputeNutritionDay(userID int64, summaryDate string) error {
	var d NutritionDay
	err := db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN color_category = 'green' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN color_category = 'yellow' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN color_category = 'red' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(plant_servings), 0),
		       COALESCE(SUM(fiber_grams), 0),
		       COALESCE(SUM(water_glasses), 0)
		FROM meal_logs WHERE user_id = ? AND log_date = ?`, userID, summaryDate).Scan(
		&d.TotalMeals, &d.GreenCount, &d.YellowCount, &d.RedCount,
		&d.TotalPlantServings, &d.TotalFiberGrams, &d.TotalWaterGlasses)
	if err != nil {
		return err
	}
	if d.TotalMeals == 0 {
		_, err := db.Exec(`DELETE FROM nutrition_daily_summary WHERE user_id = ? AND summary_date = ?`,
			userID, summaryDate)
		return err
	}
	plantScore := int(d.TotalPlantServings / 9 * 100)
	if plantScore > 100 {
		plantScore = 100
	}
	colorScore := 100 * d.GreenCount / d.TotalMeals
	colorScore -= 25 * d.RedCount / d.TotalMeals
	if colorScore < 0 {
		colorScore = 0
	}
	nutritionScore := (plantScore + colorScore) / 2
	_, err = db.Exec(`
		INSERT INTO nutrition_daily_summary
			(user_id, summary_date, total_meals, green_count, yellow_count, red_count,
			 total_plant_servings, total_fiber_grams, total_water_glasses, plant_score, nutrition_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, summary_date) DO UPDATE SET
			total_meals = excluded.total_meals,
			green_count = excluded.green_count,
			yellow_count = excluded.yellow_count,
			red_count = excluded.red_count,
			total_plant_servings = excluded.total_plant_servings,
			total_fiber_grams = excluded.total_fiber_grams,
			total_water_glasses = excluded.total_water_glasses,
			plant_score = excluded.plant_score,
			nutrition_score = excluded.nutrition_score`,
		userID, summaryDate, d.TotalMeals, d.GreenCount, d.YellowCount, d.RedCount,
		d.TotalPlantServings, d.TotalFiberGrams, d.TotalWaterGlasses, plantScore, nutritionScore)
	if err != nil {
		return fmt.Errorf("updating nutrition summary: %w", err)
	}
	return nil
}

func (db *DB) NutritionDaySummary(userID int64, summaryDate string) (*NutritionDay, error) {
	d := &NutritionDay{SummaryDate: summaryDate}
	err := db.QueryRow(`
		SELECT total_meals, green_count, yellow_count, red_count,
		       total_plant_servings, total_fiber_grams, total_water_glasses,
		       plant_score, nutrition_score
		FROM nutrition_daily_summary WHERE user_id = ? AND summary_date = ?`,
		userID, summaryDate).Scan(
		&d.TotalMeals, &d.GreenCount, &d.YellowCount, &d.RedCount,
		&d.TotalPlantServings, &d.TotalFiberGrams, &d.TotalWaterGlasses,
		&d.PlantScore, &d.NutritionScore)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

type Food struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Category      *string  `json:"category,omitempty"`
	ServingSize   *float64 `json:"serving_size,omitempty"`
	ServingUnit   *string  `json:"serving_unit,omitempty"`
	Calories      float64  `json:"calories"`
	ProteinG      float64  `json:"protein_g"`
	CarbsG        float64  `json:"carbs_g"`
	FatG          float64  `json:"fat_g"`
	FiberG        float64  `json:"fiber_g"`
	ColorCategory *string  `json:"color_category,omitempty"`
	IsPlantBased  bool     `json:"is_plant_based"`
}

const foodColumns = `id, name, category, serving_size, serving_unit,
	COALESCE(calories, 0), COALESCE(protein_g, 0), COALESCE(carbs_g, 0),
	COALESCE(fat_g, 0), COALESCE(fiber_g, 0), color_category, is_plant_based`

func (db *DB) SearchFoods(query, category string, limit int) ([]*Food, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + foodColumns + ` FROM food_database WHERE name LIKE ?`
	args := []any{"%" + query + "%"}
	if category != "" {
		q += ` AND category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY name LIMIT ?`
	args = append(args, limit)
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Food
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (db *DB) GetFood(id int64) (*Food, error) {
	return scanFood(db.QueryRow(`SELECT `+foodColumns+` FROM food_database WHERE id = ?`, id))
}

func scanFood(row rowScanner) (*Food, error) {
	f := &Food{}
	var category, unit, color sql.NullString
	var servingSize sql.NullFloat64
	var plantBased int
	err := row.Scan(&f.ID, &f.Name, &category, &servingSize, &unit,
		&f.Calories, &f.ProteinG, &f.CarbsG, &f.FatG, &f.FiberG, &color, &plantBased)
	if err != nil {
		return nil, err
	}
	f.Category = nullStrPtr(category)
	f.ServingUnit = nullStrPtr(unit)
	f.ColorCategory = nullStrPtr(color)
	f.ServingSize = nullFloatPtr(servingSize)
	f.IsPlantBased = plantBased == 1
	return f, nil
}

type FoodLogItem struct {
	ID       int64   `json:"id"`
	FoodID   int64   `json:"food_id"`
	FoodName string  `json:"food_name"`
	LogDate  string  `json:"log_date"`
	MealType *string `json:"meal_type,omitempty"`
	Servings float64 `json:"servings"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

// LogFoodItem snapshots the food's macros scaled by servings, so later edits
// to the food database don't rewrite history. Recomputes the calorie day.
func (db *DB) LogFoodItem(userID, foodID int64, logDate, mealType string, servings float64) (int64, error) {
	if servings <= 0 {
		return 0, fmt.Errorf("servings must be positive")
	}
	food, err := db.GetFood(foodID)
	if err != nil {
		return 0, fmt.Errorf("looking up food: %w", err)
	}
	res, err := db.Exec(`
		INSERT INTO food_log_items
			(user_id, food_id, log_date, meal_type, servings, calories, protein_g, carbs_g, fat_g, fiber_g)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, foodID, logDate, emptyToNil(mealType), servings,
		food.Calories*servings, food.ProteinG*servings, food.CarbsG*servings,
		food.FatG*servings, food.FiberG*servings)
	if err != nil {
		return 0, fmt.Errorf("logging food item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := db.RecomputeCalorieDay(userID, logDate); err != nil {
		return 0, err
	}
	return id, nil
}

func (db *DB) DeleteFoodLogItem(itemID, userID int64) error {
	var logDate string
	err := db.QueryRow(`SELECT log_date FROM food_log_items WHERE id = ? AND user_id = ?`,
		itemID, userID).Scan(&logDate)
	if err != nil {
		return err
	}
	if _, err := db.Exec(`DELETE FROM food_log_items WHERE id = ?`, itemID); err != nil {
		return err
	}
	return db.RecomputeCalorieDay(userID, logDate)
}

func (db *DB) FoodLogForDate(userID int64, logDate string) ([]*FoodLogItem, error) {
	rows, err := db.Query(`
		SELECT fli.id, fli.food_id, fd.name, fli.log_date, fli.meal_type, fli.servings,
		       COALESCE(fli.calories, 0), COALESCE(fli.protein_g, 0), COALESCE(fli.carbs_g, 0),
		       COALESCE(fli.fat_g, 0), COALESCE(fli.fiber_g, 0)
		FROM food_log_items fli
		JOIN food_database fd ON fd.id = fli.food_id
		WHERE fli.user_id = ? AND fli.log_date = ? ORDER BY fli.id`, userID, logDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*FoodLogItem
	for rows.Next() {
		item := &FoodLogItem{}
		var mealType sql.NullString
		if err := rows.Scan(&item.ID, &item.FoodID, &item.FoodName, &item.LogDate, &mealType,
			&item.Servings, &item.Calories, &item.ProteinG, &item.CarbsG,
			&item.FatG, &item.FiberG); err != nil {
			return nil, err
		}
		item.MealType = nullStrPtr(mealType)
		out = append(out, item)
	}
	return out, rows.Err()
}

type CalorieDay struct {
	SummaryDate   string  `json:"summary_date"`
	TotalCalories float64 `json:"total_calories"`
	TotalProteinG float64 `json:"total_protein_g"`
	TotalCarbsG   float64 `json:"total_carbs_g"`
	TotalFatG     float64 `json:"total_fat_g"`
	TotalFiberG   float64 `json:"total_fiber_g"`
	TotalItems    int     `json:"total_items"`
}

// RecomputeCalorieDay rebuilds the day's calorie summary from its items.
func (db *DB) RecomputeCalorieDay(userID int64, summaryDate string) error {
	var d CalorieDay
	err := db.QueryRow(`
		SELECT COALESCE(SUM(calories), 0), COALESCE(SUM(protein_g), 0),
		       COALESCE(SUM(carbs_g), 0), COALESCE(SUM(fat_g), 0),
		       COALESCE(SUM(fiber_g), 0), COUNT(*)
		FROM food_log_items WHERE user_id = ? AND log_date = ?`, userID, summaryDate).Scan(
		&d.TotalCalories, &d.TotalProteinG, &d.TotalCarbsG, &d.TotalFatG,
		&d.TotalFiberG, &d.TotalItems)
	if err != nil {
		return err
	}
	if d.TotalItems == 0 {
		_, err := db.Exec(`DELETE FROM calorie_daily_summary WHERE user_id = ? AND summary_date = ?`,
			userID, summaryDate)
		return err
	}
	_, err = db.Exec(`
		INSERT INTO calorie_daily_summary
			(user_id, summary_date, total_calories, total_protein_g, total_carbs_g,
			 total_fat_g, total_fiber_g, total_items)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, summary_date) DO UPDATE SET
			total_calories = excluded.total_calories,
			total_protein_g = excluded.total_protein_g,
			total_carbs_g = excluded.total_carbs_g,
			total_fat_g = excluded.total_fat_g,
			total_fiber_g = excluded.total_fiber_g,
			total_items = excluded.total_items`,
		userID, summaryDate, d.TotalCalories, d.TotalProteinG, d.TotalCarbsG,
		d.TotalFatG, d.TotalFiberG, d.TotalItems)
	if err != nil {
		return fmt.Errorf("updating calorie summary: %w", err)
	}
	return nil
}

func (db *DB) CalorieDaySummary(userID int64, summaryDate string) (*CalorieDay, error) {
	d := &CalorieDay{SummaryDate: summaryDate}
	err := db.QueryRow(`
		SELECT total_calories, total_protein_g, total_carbs_g, total_fat_g, total_fiber_g, total_items
		FROM calorie_daily_summary WHERE user_id = ? AND summary_date = ?`,
		userID, summaryDate).Scan(
		&d.TotalCalories, &d.TotalProteinG, &d.TotalCarbsG, &d.TotalFatG,
		&d.TotalFiberG, &d.TotalItems)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

type CalorieTargets struct {
	CalorieTarget  *float64 `json:"calorie_target,omitempty"`
	ProteinTargetG *float64 `json:"protein_target_g,omitempty"`
	CarbsTargetG   *float64 `json:"carbs_target_g,omitempty"`
	FatTargetG     *float64 `json:"fat_target_g,omitempty"`
}

func (db *DB) SetCalorieTargets(userID int64, t CalorieTargets) error {
	_, err := db.Exec(`
		INSERT INTO calorie_targets (user_id, calorie_target, protein_target_g, carbs_target_g, fat_target_g)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			calorie_target = excluded.calorie_target,
			protein_target_g = excluded.protein_target_g,
			carbs_target_g = excluded.carbs_target_g,
			fat_target_g = excluded.fat_target_g,
			updated_at = datetime('now')`,
		userID, t.CalorieTarget, t.ProteinTargetG, t.CarbsTargetG, t.FatTargetG)
	return err
}

func (db *DB) GetCalorieTargets(userID int64) (*CalorieTargets, error) {
	t := &CalorieTargets{}
	var cal, protein, carbs, fat sql.NullFloat64
	err := db.QueryRow(`
		SELECT calorie_target, protein_target_g, carbs_target_g, fat_target_g
		FROM calorie_targets WHERE user_id = ?`, userID).Scan(&cal, &protein, &carbs, &fat)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.CalorieTarget = nullFloatPtr(cal)
	t.ProteinTargetG = nullFloatPtr(protein)
	t.CarbsTargetG = nullFloatPtr(carbs)
	t.FatTargetG = nullFloatPtr(fat)
	return t, nil
}
